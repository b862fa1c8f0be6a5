package email

// EmailRequest là một email plain text
type EmailRequest struct {
	To      []string // Recipients
	Subject string
	Body    string
}

// LectureCreatedData is what the "new lecture" mail talks about
type LectureCreatedData struct {
	ID         string
	Name       string
	Instructor string
	Building   string
	RoomNumber string
	Owner      string
}
