package shop

import (
	"context"
	"errors"
	"fmt"

	"github.com/AlessioCavassi/Sito-mio-instagram/internal/logging"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the interactive storefront and blocks until the user quits or
// ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	progOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if opts.AltScreen {
		progOpts = append(progOpts, tea.WithAltScreen())
	}

	m := New(ctx, opts)
	logging.Boot("starting storefront: %d products, debug panel=%v", len(m.products), opts.DebugPanel)

	p := tea.NewProgram(m, progOpts...)
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("storefront: %w", err)
	}
	return nil
}
