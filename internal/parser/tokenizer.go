package parser

import "strings"

// 토크나이저 상태.
// bare 에서 여는 문자를 만나면 quote/bracket 누적 상태로 들어가고,
// 같은 종류의 닫는 문자를 만나면 누적분이 토큰 하나로 합쳐진다.
type tokenizerState int

const (
	stateBare tokenizerState = iota
	stateInQuote
	stateInBracket
)

// Tokenizer
// ------------------------------------------------------------
// access 로그 한 줄을 필드 토큰 목록으로 쪼갠다.
// 스페이스로 나눈 조각(part)이 기본 단위이고, "..." 또는 [...] 로
// 감싸인 멀티워드 필드는 내부 공백을 보존한 채 토큰 하나가 된다.
// 구분 문자(따옴표/대괄호)는 토큰에 그대로 남는다.
//
// 수백만 라인을 도는 핫 패스라 내부 slice 를 라인 간에 재사용한다.
// 반환된 토큰 slice 는 다음 Split 호출 전까지만 유효하다.
type Tokenizer struct {
	parts  []string // 스페이스 분리 결과
	multi  []string // 멀티워드 누적 버퍼
	tokens []string // 토큰 결과
}

func NewTokenizer() *Tokenizer {
	return &Tokenizer{}
}

// Split 은 한 라인을 토큰 목록으로 바꾼다.
//
// 상태별 규칙:
//   - bare: `"` 로 시작하는데 `"` 개수가 2가 아니면 quote 누적 시작.
//     `[` 로 시작하는데 `]` 로 끝나지 않으면 bracket 누적 시작.
//     그 외의 part 는 그대로 토큰 하나가 된다.
//   - in-quote: `"` 가 0보다 큰 위치에 있는 part 에서 닫힌다.
//   - in-bracket: `]` 가 0보다 큰 위치에 있거나 part 의 마지막
//     문자가 `]` 이면 닫힌다.
//
// 닫는 문자는 여는 문자와 같은 종류여야 한다. 라인 끝까지 닫히지
// 않은 누적분은 버려져서 토큰 수가 모자라게 되고, 그 라인은
// 디코딩 단계에서 걸러진다.
func (t *Tokenizer) Split(line string) []string {
	tokens := t.tokens[:0]
	multi := t.multi[:0]
	state := stateBare

	for _, part := range t.splitSpaces(line) {
		switch state {
		case stateBare:
			switch {
			case part[0] == '"' && strings.Count(part, `"`) != 2:
				multi = append(multi, part)
				state = stateInQuote
			case part[0] == '[' && part[len(part)-1] != ']':
				multi = append(multi, part)
				state = stateInBracket
			default:
				tokens = append(tokens, part)
			}

		case stateInQuote:
			multi = append(multi, part)
			if strings.IndexByte(part, '"') > 0 {
				tokens = append(tokens, strings.Join(multi, " "))
				multi = multi[:0]
				state = stateBare
			}

		case stateInBracket:
			multi = append(multi, part)
			if strings.IndexByte(part, ']') > 0 || part[len(part)-1] == ']' {
				tokens = append(tokens, strings.Join(multi, " "))
				multi = multi[:0]
				state = stateBare
			}
		}
	}

	t.tokens = tokens
	t.multi = multi[:0]

	return tokens
}

// splitSpaces 는 라인을 스페이스(0x20) 단위로 자른다.
// 연속 스페이스가 만드는 빈 조각은 버린다. 결과 slice 는 내부
// 버퍼라서 다음 호출 전까지만 유효하다.
func (t *Tokenizer) splitSpaces(line string) []string {
	parts := t.parts[:0]

	start := -1
	for i := 0; i < len(line); i++ {
		if line[i] == ' ' {
			if start >= 0 {
				parts = append(parts, line[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		parts = append(parts, line[start:])
	}

	t.parts = parts
	return parts
}
