package interfaces

// FileSystem은 파일 시스템 작업을 추상화하는 인터페이스입니다
type FileSystem interface {
	// ReadFile은 파일을 읽습니다
	ReadFile(path string) ([]byte, error)

	// Exists는 파일이나 디렉토리가 존재하는지 확인합니다
	Exists(path string) bool
}
