package export

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"store-monitor-backend/internal/uptime"
)

// RenderTable prints rows as an aligned terminal table followed by a
// one-line footer naming the reference time.
func RenderTable(w io.Writer, rep *uptime.Report) error {
	table := tablewriter.NewWriter(w)
	defer func() { _ = table.Close() }()

	table.Header([]string{
		"Store",
		"Up 1h (min)",
		"Up 24h (h)",
		"Up 7d (h)",
		"Down 1h (min)",
		"Down 24h (h)",
		"Down 7d (h)",
	})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	data := make([][]string, 0, len(rep.Rows))
	for _, r := range rep.Rows {
		data = append(data, record(r))
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "%d stores as of %s, %d skipped\n",
		len(rep.Rows), rep.ReferenceTime.Format("2006-01-02 15:04:05 MST"), len(rep.Skipped)); err != nil {
		return err
	}
	return nil
}
