package stats

import (
	"testing"

	"uistat-report/internal/model"
)

func record(url string, reqTime float64) model.LogRecord {
	return model.LogRecord{
		Request:     `"GET ` + url + ` HTTP/1.1"`,
		RequestTime: reqTime,
	}
}

func TestFoldScenario(t *testing.T) {
	agg := NewAggregator()
	for _, rec := range []model.LogRecord{
		record("/page1", 0.1),
		record("/page1", 0.2),
		record("/page2", 0.3),
		record("/page3", 0.4),
	} {
		if !agg.Fold(rec) {
			t.Fatalf("Fold(%q) rejected a valid record", rec.Request)
		}
	}

	if g := agg.Global(); g.Count != 4 {
		t.Fatalf("Global().Count = %d, want 4", g.Count)
	}
	if agg.URLCount() != 3 {
		t.Fatalf("URLCount() = %d, want 3", agg.URLCount())
	}

	rows := agg.Finalize()
	if len(rows) != 3 {
		t.Fatalf("Finalize() returned %d rows, want 3", len(rows))
	}

	want := []model.ReportRow{
		{URL: "/page1", Count: 2, CountPerc: 50, TimeAvg: 0.15, TimeMax: 0.2, TimeMed: 0.2, TimePerc: 30, TimeSum: 0.3},
		{URL: "/page2", Count: 1, CountPerc: 25, TimeAvg: 0.3, TimeMax: 0.3, TimeMed: 0.3, TimePerc: 30, TimeSum: 0.3},
		{URL: "/page3", Count: 1, CountPerc: 25, TimeAvg: 0.4, TimeMax: 0.4, TimeMed: 0.4, TimePerc: 40, TimeSum: 0.4},
	}
	for i, w := range want {
		if rows[i] != w {
			t.Errorf("row[%d] = %+v, want %+v", i, rows[i], w)
		}
	}
}

func TestFoldUnattributable(t *testing.T) {
	agg := NewAggregator()

	for _, request := range []string{`"0"`, `"-"`, `"GET"`, ""} {
		rec := model.LogRecord{Request: request, RequestTime: 9.9}
		if agg.Fold(rec) {
			t.Errorf("Fold accepted request %q", request)
		}
	}

	if g := agg.Global(); g.Count != 0 || g.TimeSum != 0 {
		t.Errorf("Global() = %+v after unattributable records, want zero", g)
	}
	if rows := agg.Finalize(); rows != nil {
		t.Errorf("Finalize() = %v, want nil", rows)
	}
}

func TestFoldInvariants(t *testing.T) {
	// 이진수로 정확히 표현되는 시간값을 URL 간에 섞어 넣어도
	// 전체 모수와 URL별 합이 정확히 일치해야 한다.
	agg := NewAggregator()
	records := []model.LogRecord{
		record("/a", 0.25),
		record("/b", 0.5),
		record("/a", 1.75),
		record("/c", 0.125),
		record("/b", 2.0),
		record("/a", 0.25),
	}
	for _, rec := range records {
		agg.Fold(rec)
	}

	var count int64
	var timeSum float64
	for _, url := range []string{"/a", "/b", "/c"} {
		s := agg.byURL[url]
		if s == nil {
			t.Fatalf("url %s missing from aggregate", url)
		}
		count += s.Count
		timeSum += s.TimeSum

		if int(s.Count) != len(s.Times) {
			t.Errorf("%s: Count=%d but len(Times)=%d", url, s.Count, len(s.Times))
		}
		var sum, max float64
		for _, v := range s.Times {
			sum += v
			if v > max {
				max = v
			}
		}
		if s.TimeSum != sum || s.TimeMax != max {
			t.Errorf("%s: TimeSum/TimeMax = %v/%v, want %v/%v", url, s.TimeSum, s.TimeMax, sum, max)
		}
	}

	g := agg.Global()
	if g.Count != count {
		t.Errorf("Global().Count = %d, want %d", g.Count, count)
	}
	if g.TimeSum != timeSum {
		t.Errorf("Global().TimeSum = %v, want %v", g.TimeSum, timeSum)
	}
}

func TestFoldTimeMax(t *testing.T) {
	agg := NewAggregator()
	agg.Fold(record("/x", 0.5))
	agg.Fold(record("/x", 0.2))
	agg.Fold(record("/x", 0.5))

	if s := agg.byURL["/x"]; s.TimeMax != 0.5 {
		t.Errorf("TimeMax = %v, want 0.5", s.TimeMax)
	}
}

func TestCountPercSumsToHundred(t *testing.T) {
	agg := NewAggregator()
	for i, url := range []string{"/a", "/b", "/c", "/a", "/d", "/b", "/a"} {
		agg.Fold(record(url, float64(i)*0.1))
	}

	rows := agg.Finalize()
	var total float64
	for _, row := range rows {
		total += row.CountPerc
	}

	tolerance := 0.001 * float64(len(rows))
	if diff := total - 100; diff > tolerance || diff < -tolerance {
		t.Errorf("sum of count_perc = %v, want 100 within %v", total, tolerance)
	}
}
