package stats

import (
	"math"
	"sort"

	"uistat-report/internal/model"
)

// Finalize 는 누적 상태를 리포트 행으로 바꾼다. 행 순서는 URL 이
// 처음 등장한 순서다. 집계된 레코드가 하나도 없으면 빈 테이블을
// 돌려준다. 0으로 나누는 경로 자체가 생기지 않게 먼저 자른다.
//
// 반올림 정책: count 이외의 수치는 소수점 셋째 자리 반올림,
// 단 time_max 와 time_med 는 관측값 그대로 노출한다.
func (a *Aggregator) Finalize() []model.ReportRow {
	if a.global.Count == 0 {
		return nil
	}

	rows := make([]model.ReportRow, 0, len(a.order))
	for _, url := range a.order {
		s := a.byURL[url]

		row := model.ReportRow{
			URL:       url,
			Count:     s.Count,
			CountPerc: round3(float64(s.Count) / float64(a.global.Count) * 100),
			TimeAvg:   round3(s.TimeSum / float64(s.Count)),
			TimeMax:   s.TimeMax,
			TimeMed:   median(s.Times),
			TimeSum:   round3(s.TimeSum),
		}
		// 전체 시간이 0이면 (모든 요청이 0.000초) 퍼센트는 0으로 둔다
		if a.global.TimeSum > 0 {
			row.TimePerc = round3(s.TimeSum / a.global.TimeSum * 100)
		}

		rows = append(rows, row)
	}

	return rows
}

// median 은 중앙값을 돌려준다. 짝수 길이에서 두 가운데 값의
// 평균이 아니라 정렬 후 n/2 인덱스 값(가운데 쌍의 큰 쪽)을 쓴다.
// 누적된 기존 리포트와 수치가 이어져야 하는 호환 계약이다.
func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	s := make([]float64, len(values))
	copy(s, values)
	sort.Float64s(s)

	return s[len(s)/2]
}

// round3 은 소수점 셋째 자리 반올림.
func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// TopByTimeSum 은 time_sum 내림차순으로 안정 정렬한 뒤 상위 n개만
// 남긴다. time_sum 이 같은 행끼리는 입력 순서(=URL 최초 등장 순서)가
// 유지된다. 원본 slice 는 건드리지 않는다.
func TopByTimeSum(rows []model.ReportRow, n int) []model.ReportRow {
	out := make([]model.ReportRow, len(rows))
	copy(out, rows)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TimeSum > out[j].TimeSum
	})

	if n >= 0 && len(out) > n {
		out = out[:n]
	}

	return out
}
