package metrics

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// Metrics 는 배치 한 번의 처리 결과를 나타내는 카운터 모음이다.
// 실행 종료 시점에 요약 로그로 한 번에 덤프된다.
type Metrics struct {
	// ======================
	// 파싱 지표
	// ======================

	// LinesTotal
	// - 선택된 로그 파일에서 읽은 "모든" 라인 수.
	// - 파싱 성공/실패 여부와 관계없이 라인을 읽을 때마다 1씩 증가한다.
	// - 처리 규모를 가장 단순하게 파악하는 지표.
	LinesTotal int64

	// RecordsParsedTotal
	// - 토큰화 + 디코딩을 통과해 레코드로 변환된 라인 수.
	// - LinesTotal - RecordsParsedTotal 을 보면 포맷이 깨진 라인 규모를
	//   간접적으로 알 수 있다.
	RecordsParsedTotal int64

	// MalformedLinesTotal
	// - 필드 수가 맞지 않거나 숫자 필드 파싱에 실패해 skip 된 라인 수.
	// - 이 값이 전체 대비 급격히 커지면 로그 포맷이 바뀌었거나 파일이
	//   손상되었다는 신호. 실행은 중단하지 않고 카운트만 한다.
	MalformedLinesTotal int64

	// UnattributedRecordsTotal
	// - 디코딩은 됐지만 $request 필드에서 URL 을 뽑을 수 없어
	//   집계에서 제외된 레코드 수. (예: "0", "-" 같은 비정상 요청)
	// - 통계 모수에는 전혀 포함되지 않는다.
	UnattributedRecordsTotal int64

	// ======================
	// Reject 보관 지표
	// ======================

	// RejectedBytesTotal
	// - reject 파일에 원문 그대로 기록된 바이트 수 (개행 포함).
	RejectedBytesTotal int64

	// RejectedLinesDroppedTotal
	// - reject 파일이 용량 제한(REJECT_MAX_BYTES)에 걸려 기록하지 못하고
	//   버린 라인 수. 0이 아니면 깨진 라인 표본이 잘려 나갔다는 뜻.
	RejectedLinesDroppedTotal int64

	// ======================
	// 리포트 지표
	// ======================

	// ReportRowsTotal
	// - 최종 리포트 테이블에 남은 행(URL) 수.
	// - REPORT_SIZE 로 자른 뒤의 값이므로 최대 REPORT_SIZE 를 넘지 않는다.
	ReportRowsTotal int64

	// ======================
	// S3 레벨 지표
	// ======================

	// S3PutErrorsTotal
	// - S3 PutObject 호출이 실패한 "시도(attempt)" 횟수.
	// - retry 가 있으므로 한 번의 업로드 작업에서도 여러 번 증가할 수 있다.
	//   예: 3회 재시도 설정, 모두 실패 → 이 카운터는 +3.
	// - 네트워크 문제, S3 일시 장애, 권한 문제 등 "API 호출 레벨 에러"를 감시하는 용도.
	S3PutErrorsTotal int64
}

func New() *Metrics {
	return &Metrics{}
}

func (m *Metrics) String() string {
	var sb strings.Builder
	sb.Grow(256)

	fmt.Fprintf(&sb, "lines_total=%d\n", atomic.LoadInt64(&m.LinesTotal))
	fmt.Fprintf(&sb, "records_parsed_total=%d\n", atomic.LoadInt64(&m.RecordsParsedTotal))
	fmt.Fprintf(&sb, "malformed_lines_total=%d\n", atomic.LoadInt64(&m.MalformedLinesTotal))
	fmt.Fprintf(&sb, "unattributed_records_total=%d\n", atomic.LoadInt64(&m.UnattributedRecordsTotal))

	fmt.Fprintf(&sb, "rejected_bytes_total=%d\n", atomic.LoadInt64(&m.RejectedBytesTotal))
	fmt.Fprintf(&sb, "rejected_lines_dropped_total=%d\n", atomic.LoadInt64(&m.RejectedLinesDroppedTotal))

	fmt.Fprintf(&sb, "report_rows_total=%d\n", atomic.LoadInt64(&m.ReportRowsTotal))
	fmt.Fprintf(&sb, "s3_put_errors_total=%d\n", atomic.LoadInt64(&m.S3PutErrorsTotal))

	return sb.String()
}

// Fields 는 요약 로그에 붙일 구조화 필드 맵을 돌려준다.
// String() 과 같은 이름을 쓰므로 두 출력을 섞어 봐도 헷갈리지 않는다.
func (m *Metrics) Fields() map[string]interface{} {
	return map[string]interface{}{
		"lines_total":                  atomic.LoadInt64(&m.LinesTotal),
		"records_parsed_total":         atomic.LoadInt64(&m.RecordsParsedTotal),
		"malformed_lines_total":        atomic.LoadInt64(&m.MalformedLinesTotal),
		"unattributed_records_total":   atomic.LoadInt64(&m.UnattributedRecordsTotal),
		"rejected_bytes_total":         atomic.LoadInt64(&m.RejectedBytesTotal),
		"rejected_lines_dropped_total": atomic.LoadInt64(&m.RejectedLinesDroppedTotal),
		"report_rows_total":            atomic.LoadInt64(&m.ReportRowsTotal),
		"s3_put_errors_total":          atomic.LoadInt64(&m.S3PutErrorsTotal),
	}
}
