package service

// Level is the severity of a Notice, named after the CSS classes the views use.
type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelDanger  Level = "danger"
)

// Notice is the user-facing outcome of an operation. The presentation layer
// decides how to show it; services never hold it between requests.
type Notice struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

func Success(msg string) Notice { return Notice{Level: LevelSuccess, Message: msg} }
func Info(msg string) Notice    { return Notice{Level: LevelInfo, Message: msg} }
func Warning(msg string) Notice { return Notice{Level: LevelWarning, Message: msg} }
func Danger(msg string) Notice  { return Notice{Level: LevelDanger, Message: msg} }
