package ton

import "testing"

func TestNanoToTokens(t *testing.T) {
	cases := []struct {
		nano int64
		want int64
	}{
		{NanoTON, 2000},
		{NanoTON / 2, 1000},
		{NanoTON / 10, 200},
		{2 * NanoTON, 4000},
		{0, 0},
	}

	for _, tc := range cases {
		if got := NanoToTokens(tc.nano); got != tc.want {
			t.Fatalf("NanoToTokens(%d) = %d; want %d", tc.nano, got, tc.want)
		}
	}
}

func TestTokensToNanoRoundTrip(t *testing.T) {
	for _, tokens := range []int64{200, 1000, 2000, 4000} {
		nano := TokensToNano(tokens)
		if got := NanoToTokens(nano); got != tokens {
			t.Fatalf("round trip %d tokens -> %d nano -> %d tokens", tokens, nano, got)
		}
	}
}

func TestTONToNano(t *testing.T) {
	if got := TONToNano(1); got != NanoTON {
		t.Fatalf("TONToNano(1) = %d; want %d", got, NanoTON)
	}
	if got := TONToNano(0.1); got != NanoTON/10 {
		t.Fatalf("TONToNano(0.1) = %d; want %d", got, NanoTON/10)
	}
}
