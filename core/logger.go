package core

// Logger is any service that can log app events.
// args may hold errors, maps of extra data, or a TeacherID identifying who triggered the event.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}

// TeacherID tags a log entry with the teacher on whose behalf it was produced.
type TeacherID string
