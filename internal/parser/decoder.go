// internal/parser/decoder.go
package parser

import (
	"fmt"
	"math"
	"strconv"

	"uistat-report/internal/model"
)

// FieldCount 는 ui_short 포맷의 필드 수.
// 토큰이 정확히 이만큼 나오지 않은 라인은 손상으로 본다.
const FieldCount = 13

// DecodeRecord 는 토큰 13개를 순서 그대로 LogRecord 필드에 매핑한다.
// 토큰 수가 다르거나 숫자 필드 파싱에 실패하면 에러를 돌려주고,
// 호출측은 해당 라인만 skip 한다. 라인 하나 때문에 실행 전체가
// 중단되는 일은 없어야 한다.
func DecodeRecord(tokens []string) (model.LogRecord, error) {
	if len(tokens) != FieldCount {
		return model.LogRecord{}, fmt.Errorf("wrong token count: got %d, want %d", len(tokens), FieldCount)
	}

	bodyBytes, err := strconv.ParseInt(tokens[6], 10, 64)
	if err != nil || bodyBytes < 0 {
		return model.LogRecord{}, fmt.Errorf("bad body_bytes_sent %q", tokens[6])
	}

	reqTime, err := strconv.ParseFloat(tokens[12], 64)
	if err != nil || reqTime < 0 || math.IsNaN(reqTime) || math.IsInf(reqTime, 0) {
		return model.LogRecord{}, fmt.Errorf("bad request_time %q", tokens[12])
	}

	return model.LogRecord{
		RemoteAddr:        tokens[0],
		RemoteUser:        tokens[1],
		HTTPXRealIP:       tokens[2],
		TimeLocal:         tokens[3],
		Request:           tokens[4],
		Status:            tokens[5],
		BodyBytesSent:     bodyBytes,
		HTTPReferer:       tokens[7],
		HTTPUserAgent:     tokens[8],
		HTTPXForwardedFor: tokens[9],
		HTTPXRequestID:    tokens[10],
		HTTPXRBUser:       tokens[11],
		RequestTime:       reqTime,
	}, nil
}
