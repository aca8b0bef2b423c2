package utils

import (
	"fmt"
	"regexp"
	"strconv"
)

// 호스트네임 패턴
var hostnamePattern = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9\-\.]*[a-zA-Z0-9])?$`)

// ValidateHostname은 호스트네임이 유효한지 검증
func ValidateHostname(hostname string) error {
	if hostname == "" {
		return fmt.Errorf("호스트네임이 비어있음")
	}

	if len(hostname) > 253 {
		return fmt.Errorf("호스트네임이 너무 김: %d자 (최대 253자)", len(hostname))
	}

	if !hostnamePattern.MatchString(hostname) {
		return fmt.Errorf("잘못된 호스트네임 형식: %s", hostname)
	}

	return nil
}

// ValidatePort는 포트 문자열이 1~65535 범위의 숫자인지 검증
func ValidatePort(port string) error {
	if port == "" {
		return fmt.Errorf("포트가 비어있음")
	}

	n, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("잘못된 포트 형식: %s", port)
	}

	if n < 1 || n > 65535 {
		return fmt.Errorf("포트 범위 초과: %d (1~65535)", n)
	}

	return nil
}
