package media

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/AlessioCavassi/Sito-mio-instagram/internal/logging"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// BrowserOptions configures the headless browser backend.
type BrowserOptions struct {
	Headless    bool
	Bin         string
	DebuggerURL string
}

// BrowserPlayer loads media inside headless Chromium and listens for the
// element's own load and error events.
type BrowserPlayer struct {
	opts    BrowserOptions
	mu      sync.Mutex
	browser *rod.Browser
	tmpDir  string
}

// NewBrowserPlayer returns an unstarted browser backend.
func NewBrowserPlayer(opts BrowserOptions) *BrowserPlayer {
	return &BrowserPlayer{opts: opts}
}

// Start launches or connects to Chromium. Safe to call repeatedly.
func (b *BrowserPlayer) Start() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.browser != nil {
		return nil
	}

	controlURL := b.opts.DebuggerURL
	if controlURL == "" {
		l := launcher.New().Headless(b.opts.Headless)
		if b.opts.Bin != "" {
			l = l.Bin(b.opts.Bin)
		}
		u, err := l.Launch()
		if err != nil {
			return fmt.Errorf("launch chrome: %w", err)
		}
		controlURL = u
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return fmt.Errorf("connect to chrome: %w", err)
	}

	dir, err := os.MkdirTemp("", "vetrina-probe-")
	if err != nil {
		_ = browser.Close()
		return fmt.Errorf("create probe dir: %w", err)
	}

	b.browser = browser
	b.tmpDir = dir
	logging.Browser("connected to %s", controlURL)
	return nil
}

// Close shuts the browser down and removes probe pages.
func (b *BrowserPlayer) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.browser == nil {
		return nil
	}
	err := b.browser.Close()
	b.browser = nil
	if b.tmpDir != "" {
		_ = os.RemoveAll(b.tmpDir)
		b.tmpDir = ""
	}
	return err
}

// Image returns the image element player.
func (b *BrowserPlayer) Image() Player { return browserElement{b: b, tag: atom.Img} }

// Video returns the video element player.
func (b *BrowserPlayer) Video() Player { return browserElement{b: b, tag: atom.Video} }

type browserElement struct {
	b   *BrowserPlayer
	tag atom.Atom
}

func (e browserElement) Kind() string {
	if e.tag == atom.Video {
		return "browser:video"
	}
	return "browser:immagine"
}

const waitForMediaJS = `() => new Promise((resolve) => {
  const el = document.getElementById('media');
  const size = () => el.tagName === 'IMG'
    ? el.naturalWidth + 'x' + el.naturalHeight
    : el.videoWidth + 'x' + el.videoHeight;
  const fail = () => resolve({ok: false, detail: el.error
    ? 'MediaError ' + el.error.code + (el.error.message ? ': ' + el.error.message : '')
    : 'evento error'});
  if (el.tagName === 'IMG' && el.complete) {
    return el.naturalWidth > 0 ? resolve({ok: true, detail: size()}) : fail();
  }
  if (el.tagName === 'VIDEO') {
    if (el.error) return fail();
    if (el.readyState >= 2) return resolve({ok: true, detail: size()});
  }
  el.addEventListener(el.tagName === 'IMG' ? 'load' : 'loadeddata', () => resolve({ok: true, detail: size()}));
  el.addEventListener('error', fail);
})`

func (e browserElement) Load(ctx context.Context, src Source) (Info, error) {
	if err := e.b.Start(); err != nil {
		return Info{}, err
	}

	e.b.mu.Lock()
	browser, dir := e.b.browser, e.b.tmpDir
	e.b.mu.Unlock()
	if browser == nil {
		return Info{}, errors.New("browser chiuso")
	}

	pagePath, err := writeProbePage(dir, e.tag, elementURL(src))
	if err != nil {
		return Info{}, err
	}
	defer os.Remove(pagePath)

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return Info{}, fmt.Errorf("open page: %w", err)
	}
	defer page.Close()

	page = page.Context(ctx)
	if err := page.Navigate(fileURL(pagePath)); err != nil {
		return Info{}, fmt.Errorf("navigate: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return Info{}, fmt.Errorf("wait load: %w", err)
	}

	res, err := page.Eval(waitForMediaJS)
	if err != nil {
		return Info{}, fmt.Errorf("eval: %w", err)
	}
	detail := res.Value.Get("detail").Str()
	logging.BrowserDebug("%s %s -> %v (%s)", e.Kind(), src, res.Value.Get("ok").Bool(), detail)
	if !res.Value.Get("ok").Bool() {
		return Info{}, errors.New(detail)
	}

	info := Info{Player: e.Kind(), Source: src.String(), Detail: "caricato nel browser"}
	var w, h int
	if _, scanErr := fmt.Sscanf(detail, "%dx%d", &w, &h); scanErr == nil {
		info.Width, info.Height = w, h
	}
	return info, nil
}

func elementURL(src Source) string {
	if src.Kind == SourceRemote {
		return src.URL.String()
	}
	abs, err := filepath.Abs(src.Path)
	if err != nil {
		abs = src.Path
	}
	return fileURL(abs)
}

func fileURL(path string) string {
	p := filepath.ToSlash(path)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return "file://" + p
}

// BuildProbePage renders a document holding a single media element with
// id "media".
func BuildProbePage(tag atom.Atom, src string) (string, error) {
	el := &html.Node{
		Type:     html.ElementNode,
		DataAtom: tag,
		Data:     tag.String(),
		Attr: []html.Attribute{
			{Key: "id", Val: "media"},
			{Key: "src", Val: src},
		},
	}
	if tag == atom.Video {
		el.Attr = append(el.Attr,
			html.Attribute{Key: "controls"},
			html.Attribute{Key: "preload", Val: "auto"},
			html.Attribute{Key: "muted"},
		)
	}

	body := &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
	body.AppendChild(el)
	root := &html.Node{Type: html.ElementNode, DataAtom: atom.Html, Data: "html"}
	root.AppendChild(body)
	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	doc.AppendChild(root)

	var sb strings.Builder
	if err := html.Render(&sb, doc); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func writeProbePage(dir string, tag atom.Atom, src string) (string, error) {
	page, err := BuildProbePage(tag, src)
	if err != nil {
		return "", err
	}
	f, err := os.CreateTemp(dir, "probe-*.html")
	if err != nil {
		return "", err
	}
	if _, err := f.WriteString(page); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}
