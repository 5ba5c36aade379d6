package poller

import (
	"fmt"

	"github.com/BearBump/ReviewBox/internal/models"
)

func FormatMessage(hw models.Homework) (string, error) {
	verdict, err := models.Verdict(hw.Status)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Изменился статус проверки работы \"%s\". %s", hw.Name, verdict), nil
}
