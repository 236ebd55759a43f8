// internal/model/record.go
package model

// LogRecord
// ------------------------------------------------------------
// nginx ui_short 포맷 access 로그 한 줄을 디코딩한 구조체.
// 분석 파이프라인에서 모든 데이터의 "기본 단위"가 된다.
// Tokenizer → Decoder → Aggregator 까지 그대로 전달된다.
//
// 문자열 필드는 로그 원문 표기를 그대로 유지한다. 즉 quoted
// 필드는 양쪽 따옴표를, time_local 은 대괄호를 포함한 채로
// 들어온다. 의미 분해(요청 URL 추출 등)는 downstream 집계
// 단계에서 수행한다.
type LogRecord struct {
	RemoteAddr        string  // $remote_addr
	RemoteUser        string  // $remote_user
	HTTPXRealIP       string  // $http_x_real_ip
	TimeLocal         string  // [$time_local] 대괄호 포함 원문
	Request           string  // "$request" 따옴표 포함 원문 ("METHOD URL PROTOCOL")
	Status            string  // $status
	BodyBytesSent     int64   // $body_bytes_sent
	HTTPReferer       string  // "$http_referer"
	HTTPUserAgent     string  // "$http_user_agent"
	HTTPXForwardedFor string  // "$http_x_forwarded_for"
	HTTPXRequestID    string  // "$http_X_REQUEST_ID"
	HTTPXRBUser       string  // "$http_X_RB_USER"
	RequestTime       float64 // $request_time (초 단위 처리 시간)
}

// ReportRow
// ------------------------------------------------------------
// 리포트 테이블의 한 행. URL 하나에 대한 최종 통계 스냅샷이며
// Aggregator 집계 결과를 finalize 한 뒤 JSON 배열로 직렬화되어
// HTML 템플릿의 $table_json 자리에 들어간다.
//
// JSON 키 순서는 리포트 뷰어가 기대하는 컬럼 순서와 같으므로
// 필드 순서를 바꾸면 안 된다.
type ReportRow struct {
	URL       string  `json:"url"`        // 요청 URL ($request 의 두 번째 토큰)
	Count     int64   `json:"count"`      // 이 URL 로 들어온 요청 수
	CountPerc float64 `json:"count_perc"` // 전체 요청 대비 비율 (%)
	TimeAvg   float64 `json:"time_avg"`   // request_time 평균
	TimeMax   float64 `json:"time_max"`   // request_time 최대값 (반올림하지 않음)
	TimeMed   float64 `json:"time_med"`   // request_time 중앙값 (정렬 후 n/2 인덱스 값)
	TimePerc  float64 `json:"time_perc"`  // 전체 처리 시간 대비 비율 (%)
	TimeSum   float64 `json:"time_sum"`   // request_time 합계
}
