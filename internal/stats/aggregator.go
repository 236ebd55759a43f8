// internal/stats/aggregator.go
package stats

import (
	"strings"

	"uistat-report/internal/model"
)

// URLStats 는 URL 하나의 누적 통계다.
// Times 는 finalize 때 중앙값 계산에만 쓰인다. 레코드 단위 데이터가
// fold 이후까지 살아남는 유일한 자리다.
type URLStats struct {
	Count   int64     // 요청 수
	TimeSum float64   // request_time 합계
	TimeMax float64   // request_time 최대값
	Times   []float64 // 관측된 request_time 전체 (등장 순서)
}

// GlobalStats 는 집계에 포함된 전체 레코드의 모수다.
// 퍼센트 컬럼(count_perc, time_perc)의 분모가 된다.
type GlobalStats struct {
	Count   int64
	TimeSum float64
}

// Aggregator
// ------------------------------------------------------------
// 디코딩된 레코드를 한 번에 하나씩 fold 해서 URL별/전체 통계를
// 쌓는다. 파일 I/O 를 전혀 모르는 순수 집계 객체라서 단독으로
// 테스트할 수 있다.
//
// 불변식:
//   - global.Count == 모든 URLStats.Count 의 합
//   - global.TimeSum == 모든 URLStats.TimeSum 의 합
//   - URLStats 각각: TimeMax == max(Times), TimeSum == sum(Times),
//     Count == len(Times)
type Aggregator struct {
	global GlobalStats
	byURL  map[string]*URLStats
	order  []string // URL 최초 등장 순서
}

func NewAggregator() *Aggregator {
	return &Aggregator{byURL: make(map[string]*URLStats)}
}

// Fold 는 레코드 하나를 집계에 반영한다.
// $request 필드를 공백으로 나눠 두 번째 토큰을 URL 로 쓴다.
// 토큰이 2개 미만이면 URL 을 뽑을 수 없으므로 false 를 돌려주고
// 아무 것도 반영하지 않는다. 전체 모수에도 넣지 않는다.
func (a *Aggregator) Fold(rec model.LogRecord) bool {
	fields := strings.Fields(rec.Request)
	if len(fields) < 2 {
		return false
	}
	url := fields[1]
	t := rec.RequestTime

	s, ok := a.byURL[url]
	if !ok {
		s = &URLStats{}
		a.byURL[url] = s
		a.order = append(a.order, url)
	}

	s.Count++
	s.TimeSum += t
	s.Times = append(s.Times, t)
	// 동률이면 먼저 본 값을 유지 (값이 같으므로 결과도 같다)
	if s.TimeMax < t {
		s.TimeMax = t
	}

	a.global.Count++
	a.global.TimeSum += t

	return true
}

// Global 은 현재까지의 전체 모수를 돌려준다.
func (a *Aggregator) Global() GlobalStats { return a.global }

// URLCount 는 집계된 고유 URL 수를 돌려준다.
func (a *Aggregator) URLCount() int { return len(a.byURL) }
