package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"
)

type fakeExec struct {
	loggedIn bool

	calls []string
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Register(ctx context.Context) error {
	f.calls = append(f.calls, "register")
	f.loggedIn = true
	return nil
}
func (f *fakeExec) Login(ctx context.Context) error {
	f.calls = append(f.calls, "login")
	f.loggedIn = true
	return nil
}
func (f *fakeExec) Me(ctx context.Context) error { f.calls = append(f.calls, "me"); return nil }
func (f *fakeExec) EditName(ctx context.Context) error {
	f.calls = append(f.calls, "editname")
	return nil
}
func (f *fakeExec) EditEmail(ctx context.Context) error {
	f.calls = append(f.calls, "editemail")
	return nil
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.calls = append(f.calls, "logout")
	f.loggedIn = false
	return nil
}

func captureOutput(t *testing.T) *[]string {
	t.Helper()
	var printed []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		parts := make([]string, len(a))
		for i, v := range a {
			parts[i], _ = v.(string)
		}
		printed = append(printed, strings.Join(parts, " "))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &printed
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	printed := captureOutput(t)

	input := strings.NewReader(strings.Join([]string{
		"help",
		"login",
		"",
		"help",
		"me",
		"editname",
		"editemail",
		"foobar",
		"logout",
		"exit",
		"me",
	}, "\n"))

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "status" }, bufio.NewReader(input))

	want := []string{"login", "me", "editname", "editemail", "logout"}
	if strings.Join(exec.calls, ",") != strings.Join(want, ",") {
		t.Fatalf("calls = %v, want %v", exec.calls, want)
	}

	out := strings.Join(*printed, "\n")
	for _, s := range []string{
		"Available commands: register, login, exit",
		"Available commands: me, editname, editemail, logout, exit",
		"Unknown command: foobar",
		"Bye!",
		"hk status> ",
	} {
		if !strings.Contains(out, s) {
			t.Fatalf("output missing %q:\n%s", s, out)
		}
	}
}

func TestRunREPL_StopsOnEOF(t *testing.T) {
	captureOutput(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewReader(strings.NewReader("register")))

	if len(exec.calls) != 1 || exec.calls[0] != "register" {
		t.Fatalf("calls = %v, want [register]", exec.calls)
	}
}
