package validate

import "testing"

func TestEmail(t *testing.T) {
	if got, ok := Email("  Jean@Example.FR "); !ok || got != "jean@example.fr" {
		t.Fatalf("want normalized email, got %q %v", got, ok)
	}
	if _, ok := Email("not-an-email"); ok {
		t.Fatal("expected rejection")
	}
}

func TestSubmissionFields(t *testing.T) {
	if _, ok := Title("ab"); ok {
		t.Fatal("title too short accepted")
	}
	if _, ok := Description("court"); ok {
		t.Fatal("description too short accepted")
	}
	if _, ok := Phone(""); !ok {
		t.Fatal("empty phone must be accepted")
	}
	if _, ok := Phone("06 01 02 03 04"); !ok {
		t.Fatal("valid phone rejected")
	}
	if _, ok := Phone("call me"); ok {
		t.Fatal("invalid phone accepted")
	}
}

func TestID(t *testing.T) {
	if id, ok := ID("42"); !ok || id != 42 {
		t.Fatalf("got %d %v", id, ok)
	}
	for _, s := range []string{"", "0", "-1", "abc", "1;DROP"} {
		if _, ok := ID(s); ok {
			t.Fatalf("%q accepted", s)
		}
	}
}

func TestQ(t *testing.T) {
	if q, ok := Q("  commode Louis-XV "); !ok || q != "commode Louis-XV" {
		t.Fatalf("got %q %v", q, ok)
	}
	if _, ok := Q("métier à tisser"); !ok {
		t.Fatal("accented keyword rejected")
	}
	for _, s := range []string{"", "a%b", "<script>", "x' OR 1=1 --;"} {
		if _, ok := Q(s); ok {
			t.Fatalf("%q accepted", s)
		}
	}
}
