package identity

import "testing"

func TestStatic(t *testing.T) {
	t.Run("empty uid is anonymous", func(t *testing.T) {
		ident := NewStatic("")
		if !ident.IsAnonymous() {
			t.Error("IsAnonymous() = false, want true for empty uid")
		}
		if ident.CurrentUID() != "anonymous" {
			t.Errorf("CurrentUID() = %s, want anonymous", ident.CurrentUID())
		}
	})

	t.Run("subscriber sees identity changes", func(t *testing.T) {
		ident := NewStatic("")
		var gotUID string
		var gotAnon bool
		cancel := ident.Subscribe(func(uid string, anonymous bool) {
			gotUID, gotAnon = uid, anonymous
		})
		defer cancel()

		ident.SetUID("u1")
		if gotUID != "u1" || gotAnon {
			t.Errorf("subscriber saw (%s, %v), want (u1, false)", gotUID, gotAnon)
		}

		ident.SetUID("")
		if gotUID != "anonymous" || !gotAnon {
			t.Errorf("subscriber saw (%s, %v), want (anonymous, true)", gotUID, gotAnon)
		}
	})

	t.Run("setting the same uid is a no-op", func(t *testing.T) {
		ident := NewStatic("u1")
		calls := 0
		cancel := ident.Subscribe(func(string, bool) { calls++ })
		defer cancel()

		ident.SetUID("u1")
		if calls != 0 {
			t.Errorf("subscriber called %d times, want 0", calls)
		}
	})

	t.Run("canceled subscriber stops receiving", func(t *testing.T) {
		ident := NewStatic("")
		calls := 0
		cancel := ident.Subscribe(func(string, bool) { calls++ })
		cancel()

		ident.SetUID("u1")
		if calls != 0 {
			t.Errorf("subscriber called %d times after cancel, want 0", calls)
		}
	})
}
