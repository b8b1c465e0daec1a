package printer

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/mcphub-dev/mcphub/internal/cmd/output"
	"github.com/mcphub-dev/mcphub/internal/config"
)

var _ output.Printer[config.ServerEntry] = (*ServerEntryPrinter)(nil)

// ServerEntryPrinter renders configured MCP servers as human readable text.
type ServerEntryPrinter struct {
	headerFunc output.WriteFunc[config.ServerEntry]
	footerFunc output.WriteFunc[config.ServerEntry]
}

func (p *ServerEntryPrinter) Header(w io.Writer, count int) {
	if p.headerFunc != nil {
		p.headerFunc(w, count)
	}
}

func (p *ServerEntryPrinter) SetHeader(fn output.WriteFunc[config.ServerEntry]) {
	p.headerFunc = fn
}

func (p *ServerEntryPrinter) Item(w io.Writer, elem config.ServerEntry) error {
	command := elem.Command
	if len(elem.Args) > 0 {
		command = fmt.Sprintf("%s %s", elem.Command, strings.Join(elem.Args, " "))
	}

	_, _ = fmt.Fprintf(w, "• %s\n  command: %s\n", elem.Name, command)

	if len(elem.Env) > 0 {
		keys := make([]string, 0, len(elem.Env))
		for k := range elem.Env {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		_, _ = fmt.Fprintf(w, "  env: %s\n", strings.Join(keys, ", "))
	}

	return nil
}

func (p *ServerEntryPrinter) Footer(w io.Writer, count int) {
	if p.footerFunc != nil {
		p.footerFunc(w, count)
	}
}

func (p *ServerEntryPrinter) SetFooter(fn output.WriteFunc[config.ServerEntry]) {
	p.footerFunc = fn
}
