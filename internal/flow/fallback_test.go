package flow

import "testing"

func TestRespondKeywordGroups(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Интересует жилье на МОРЕ", keywordGroups[0].reply},
		{"какая цена на студии?", keywordGroups[1].reply},
		{"можно ли в ипотеку?", keywordGroups[2].reply},
		{"просто привет", fallbackReply},
	}
	for _, tc := range cases {
		if got := Respond(tc.in); got != tc.want {
			t.Fatalf("Respond(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRespondFirstGroupWins(t *testing.T) {
	// mentions both the coast and price; the coast group is checked first
	if got := Respond("цена на побережье"); got != keywordGroups[0].reply {
		t.Fatalf("unexpected reply: %q", got)
	}
}
