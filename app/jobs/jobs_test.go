package jobs_test

import (
	"testing"

	"github.com/shashiranjanraj/villageangel/app/jobs"
)

// Without an SMTP account the code jobs still succeed: the code is
// logged and the mail is dropped, so registration and password reset
// never fail on delivery.
func TestCodeJobsSucceedWithoutSMTP(t *testing.T) {
	t.Setenv("MAIL_USERNAME", "")

	activation := &jobs.ActivationCodeJob{Email: "n@e.ha", UserName: "neha", Code: 123456}
	if err := activation.Handle(); err != nil {
		t.Errorf("activation job: %v", err)
	}

	reset := &jobs.ResetCodeJob{Email: "n@e.ha", UserName: "neha", Code: 654321}
	if err := reset.Handle(); err != nil {
		t.Errorf("reset job: %v", err)
	}
}
