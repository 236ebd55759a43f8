package metrics

import (
	"fmt"
	"strings"
	"testing"
)

func TestStringDumpsEveryCounter(t *testing.T) {
	m := New()
	m.LinesTotal = 6
	m.RecordsParsedTotal = 5
	m.MalformedLinesTotal = 1
	m.UnattributedRecordsTotal = 1
	m.RejectedBytesTotal = 128
	m.RejectedLinesDroppedTotal = 2
	m.ReportRowsTotal = 3
	m.S3PutErrorsTotal = 4

	out := m.String()
	want := []string{
		"lines_total=6",
		"records_parsed_total=5",
		"malformed_lines_total=1",
		"unattributed_records_total=1",
		"rejected_bytes_total=128",
		"rejected_lines_dropped_total=2",
		"report_rows_total=3",
		"s3_put_errors_total=4",
	}
	for _, line := range want {
		if !strings.Contains(out, line+"\n") {
			t.Errorf("String() missing %q:\n%s", line, out)
		}
	}
}

// String() 과 Fields() 는 같은 이름/값을 내보내야 한다.
// 텍스트 덤프와 구조화 로그를 섞어 봐도 어긋나면 안 된다.
func TestFieldsMatchesString(t *testing.T) {
	m := New()
	m.LinesTotal = 10
	m.RecordsParsedTotal = 9
	m.MalformedLinesTotal = 1
	m.ReportRowsTotal = 7

	out := m.String()
	for name, value := range m.Fields() {
		line := fmt.Sprintf("%s=%d", name, value)
		if !strings.Contains(out, line+"\n") {
			t.Errorf("Fields() entry %q not present in String():\n%s", line, out)
		}
	}

	if got, want := len(m.Fields()), strings.Count(out, "\n"); got != want {
		t.Errorf("Fields() has %d entries, String() has %d lines", got, want)
	}
}

func TestNewStartsAtZero(t *testing.T) {
	m := New()
	for name, value := range m.Fields() {
		if value.(int64) != 0 {
			t.Errorf("%s = %v on fresh Metrics, want 0", name, value)
		}
	}
}
