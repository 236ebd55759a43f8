// internal/parser/reader.go
package parser

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// maxLineBytes 는 한 라인의 허용 상한이다. user-agent 나 referer 가
// 아무리 길어도 1MB 를 넘는 라인은 로그가 아니라 손상으로 본다.
const maxLineBytes = 1 << 20

// Source
// ------------------------------------------------------------
// 로그 파일 한 개를 앞으로만(forward-only) 읽는 라인 시퀀스.
// ".gz" 확장자면 투명하게 gzip 을 풀어서 읽는다.
// 전체 파일을 메모리에 올리지 않고 한 줄씩 공급한다.
type Source struct {
	f  *os.File
	gz *gzip.Reader // plain 파일이면 nil
	sc *bufio.Scanner
}

// Open 은 로그 파일을 열고 라인 스캐너를 준비한다.
// gzip 헤더가 깨져 있으면 라인을 하나도 내보내기 전에 에러를 돌려준다.
func Open(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	s := &Source{f: f}

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("open gzip log file %s: %w", path, err)
		}
		s.gz = gz
		r = gz
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLineBytes)
	s.sc = sc

	return s, nil
}

// Scan 은 다음 라인으로 이동한다. 더 읽을 라인이 없으면 false.
func (s *Source) Scan() bool { return s.sc.Scan() }

// Line 은 현재 라인을 개행 문자 없이 돌려준다.
func (s *Source) Line() string { return s.sc.Text() }

// Err 는 스캔 중 발생한 읽기 오류를 돌려준다. EOF 는 오류가 아니다.
func (s *Source) Err() error { return s.sc.Err() }

// Close 는 gzip reader 와 파일을 순서대로 닫는다.
func (s *Source) Close() error {
	var firstErr error
	if s.gz != nil {
		if err := s.gz.Close(); err != nil {
			firstErr = err
		}
	}
	if err := s.f.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
