package framer

import "testing"

func TestEndAsReplyAppendsOK(t *testing.T) {
	var got string
	f := New(func(text string) { got = text })
	f.Begin()
	f.Add("+CSQ: 7,99\r")
	f.EndAsReply()
	if want := "+CSQ: 7,99\r\rOK"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestEndAsReplySkipsOKForAlreadyTerminalText(t *testing.T) {
	cases := []string{"OK", "ERROR: UNSUPPORTED", "+CME ERROR: 3", "> "}
	for _, text := range cases {
		var got string
		f := New(func(t string) { got = t })
		f.Begin()
		f.Add("%s", text)
		f.EndAsReply()
		if got != text {
			t.Errorf("Add(%q) then EndAsReply() = %q, want unchanged", text, got)
		}
	}
}

func TestEndAsUnsolAppendsBareCR(t *testing.T) {
	var got string
	f := New(func(text string) { got = text })
	f.Begin()
	f.Add("CALL STATE CHANGED")
	f.EndAsUnsol()
	if want := "CALL STATE CHANGED\r"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestAbortDiscardsBuffer(t *testing.T) {
	called := false
	f := New(func(string) { called = true })
	f.Begin()
	f.Add("should never be sent")
	f.Abort()
	if called {
		t.Fatal("sink should not be invoked after Abort")
	}
}

func TestAddWithoutBeginPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic calling Add before Begin")
		}
	}()
	f := New(func(string) {})
	f.Add("oops")
}
