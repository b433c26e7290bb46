package export

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"store-monitor-backend/internal/uptime"
)

func sampleRows() []uptime.Row {
	return []uptime.Row{
		{StoreID: "a", UptimeLastHour: 60, UptimeLastDay: 23.5, UptimeLastWeek: 160.25, DowntimeLastDay: 0.5, DowntimeLastWeek: 7.75},
		{StoreID: "b", UptimeLastHour: 12.34, DowntimeLastHour: 47.66, UptimeLastDay: 1.1},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleRows()))

	expected := "store_id,uptime_last_hour,uptime_last_day,uptime_last_week,downtime_last_hour,downtime_last_day,downtime_last_week\n" +
		"a,60.00,23.50,160.25,0.00,0.50,7.75\n" +
		"b,12.34,1.10,0.00,47.66,0.00,0.00\n"
	assert.Equal(t, expected, buf.String())
}

func TestWriteCSV_HeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, strings.Join(Header, ",")+"\n", buf.String())
}

func TestWriteCSVFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	path := filepath.Join(dir, "r1.csv")
	require.NoError(t, WriteCSVFile(path, sampleRows()))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(b), "store_id,"))

	// no temp files left behind
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriteParquetFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "r1.parquet")
	rows := sampleRows()
	require.NoError(t, WriteParquetFile(path, rows))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	reader := parquet.NewGenericReader[ParquetRow](file)
	defer reader.Close()

	got := make([]ParquetRow, reader.NumRows())
	n, err := reader.Read(got)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	require.Equal(t, len(rows), n)
	assert.Equal(t, ConvertRows(rows), got)
}

func TestParquetSchema(t *testing.T) {
	schema := parquet.SchemaOf(new(ParquetRow))
	var names []string
	for _, f := range schema.Fields() {
		names = append(names, f.Name())
	}
	assert.ElementsMatch(t, Header, names)
}

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	rep := &uptime.Report{
		ReferenceTime: time.Date(2023, 1, 25, 18, 13, 22, 0, time.UTC),
		Rows:          sampleRows(),
	}
	require.NoError(t, RenderTable(&buf, rep))

	out := buf.String()
	assert.Contains(t, out, "160.25")
	assert.Contains(t, out, "47.66")
	assert.Contains(t, out, "2 stores as of 2023-01-25 18:13:22 UTC, 0 skipped")
}
