package utils

import (
	"testing"
)

func TestValidateHostname(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"유효한 호스트네임", "my-host", false},
		{"유효한 호스트네임 with 점", "my.host.example", false},
		{"한 글자 호스트네임", "a", false},
		{"빈 문자열", "", true},
		{"너무 긴 호스트네임", string(make([]byte, 254)), true},
		{"잘못된 문자 포함", "my_host", true},
		{"특수문자 시작", "-myhost", true},
		{"특수문자 끝", "myhost-", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateHostname(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateHostname() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidatePort(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"유효한 포트", "8080", false},
		{"최소 포트", "1", false},
		{"최대 포트", "65535", false},
		{"빈 문자열", "", true},
		{"숫자 아님", "http", true},
		{"0 포트", "0", true},
		{"범위 초과", "65536", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePort(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePort() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
