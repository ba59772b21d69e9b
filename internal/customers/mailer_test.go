package customers

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/hengonghuat/cafe-backend/pkg/logger"
)

func TestLogMailerRedactsTempPassword(t *testing.T) {
	var buf bytes.Buffer
	logg := logger.New(logger.Options{ServiceName: "test-mailer", Output: &buf})
	mailer := NewLogMailer(logg)

	if err := mailer.SendTempPassword(context.Background(), "ana@example.com", "s3cretTemp"); err != nil {
		t.Fatalf("send: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "ana@example.com") {
		t.Fatalf("expected recipient in log, got %s", out)
	}
	if strings.Contains(out, "s3cretTemp") {
		t.Fatalf("temporary password leaked into log: %s", out)
	}
}
