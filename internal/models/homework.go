package models

import "fmt"

// Статусы проверки домашней работы (можно расширять).
const (
	HomeworkStatusApproved  = "approved"
	HomeworkStatusReviewing = "reviewing"
	HomeworkStatusRejected  = "rejected"
)

var verdicts = map[string]string{
	HomeworkStatusApproved:  "Работа проверена: ревьюеру всё понравилось. Ура!",
	HomeworkStatusReviewing: "Работа взята на проверку ревьюером.",
	HomeworkStatusRejected:  "Работа проверена: у ревьюера есть замечания.",
}

type Homework struct {
	ID     string
	Name   string
	Status string
}

type UnknownStatusError struct {
	Status string
}

func (e *UnknownStatusError) Error() string {
	return fmt.Sprintf("unknown homework status %q", e.Status)
}

// Verdict returns the text shown to the user for a status code.
func Verdict(status string) (string, error) {
	v, ok := verdicts[status]
	if !ok {
		return "", &UnknownStatusError{Status: status}
	}
	return v, nil
}

func KnownStatuses() []string {
	return []string{HomeworkStatusApproved, HomeworkStatusReviewing, HomeworkStatusRejected}
}
