package logger

import "testing"

func TestRedactorScrubsSecretsAndHashesEmail(t *testing.T) {
	r := &redactor{}
	out := r.pairs([]interface{}{
		"password", "hunter22",
		"access_token", "abc",
		"email", "someone@example.com",
		"assessment_id", 7,
	})
	if len(out) != 8 {
		t.Fatalf("unexpected length: %d", len(out))
	}
	if out[1] != redacted || out[3] != redacted {
		t.Fatalf("secrets not redacted: %+v", out)
	}
	hashed, ok := out[5].(string)
	if !ok || len(hashed) != len("hash:")+12 {
		t.Fatalf("email not hashed: %+v", out[5])
	}
	if out[7] != 7 {
		t.Fatalf("plain value altered: %+v", out[7])
	}
}

func TestRedactorLeavesInputUntouched(t *testing.T) {
	r := &redactor{}
	in := []interface{}{"password", "hunter22"}
	_ = r.pairs(in)
	if in[1] != "hunter22" {
		t.Fatalf("input slice mutated: %+v", in)
	}
}

func TestRedactorOddLength(t *testing.T) {
	out := (&redactor{}).pairs([]interface{}{"status", 200, "dangling"})
	if len(out) != 3 || out[2] != "dangling" {
		t.Fatalf("unexpected output: %+v", out)
	}
}

func TestRedactorCatchesBareJWT(t *testing.T) {
	jwtLike := "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiIxMjM0NTY3ODkwIn0.signature"
	if got := (&redactor{}).value("detail", jwtLike); got != redacted {
		t.Fatalf("expected redaction, got %v", got)
	}
}

func TestSaltChangesEmailHash(t *testing.T) {
	a := (&redactor{}).hash("someone@example.com")
	b := (&redactor{salt: "pepper"}).hash("someone@example.com")
	if a == b {
		t.Fatalf("salt had no effect: %s", a)
	}
}

func TestRedactorFromEnv(t *testing.T) {
	env := map[string]string{"LOG_REDACTION_ENABLED": "off"}
	if r := redactorFromEnv(func(k string) string { return env[k] }); r != nil {
		t.Fatalf("expected redaction disabled")
	}
	env = map[string]string{"LOG_HASH_SALT": " s1 "}
	r := redactorFromEnv(func(k string) string { return env[k] })
	if r == nil || r.salt != "s1" {
		t.Fatalf("unexpected redactor: %+v", r)
	}
}

func TestNopLoggerAcceptsFields(t *testing.T) {
	l := Nop().With("service", "test")
	l.Info("hello", "password", "x")
	l.Sync()
}
