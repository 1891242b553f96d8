package streak

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRecord(t *testing.T) {
	type args struct {
		start   Streak
		outcome Outcome
	}
	type want struct {
		streak Streak
	}

	cases := map[string]struct {
		reason string
		args   args
		want   want
	}{
		"FirstWin": {
			reason: "A win from neutral should start a winning streak of one.",
			args:   args{start: New(), outcome: Win},
			want:   want{streak: Streak{Kind: Winning, Length: 1, BestWin: 1}},
		},
		"FirstLoss": {
			reason: "A loss from neutral should start a losing streak of one.",
			args:   args{start: New(), outcome: Loss},
			want:   want{streak: Streak{Kind: Losing, Length: 1, WorstLoss: 1}},
		},
		"ExtendWinning": {
			reason: "A win while winning should extend the streak and raise the best win streak.",
			args:   args{start: Streak{Kind: Winning, Length: 2, BestWin: 2}, outcome: Win},
			want:   want{streak: Streak{Kind: Winning, Length: 3, BestWin: 3}},
		},
		"BreakWinning": {
			reason: "A loss while winning should start a losing streak and keep the best win streak.",
			args:   args{start: Streak{Kind: Winning, Length: 4, BestWin: 6, WorstLoss: 2}, outcome: Loss},
			want:   want{streak: Streak{Kind: Losing, Length: 1, BestWin: 6, WorstLoss: 2}},
		},
		"ExtendLosingBelowWorst": {
			reason: "Extending a losing streak below the historical worst should not change the worst.",
			args:   args{start: Streak{Kind: Losing, Length: 1, WorstLoss: 5}, outcome: Loss},
			want:   want{streak: Streak{Kind: Losing, Length: 2, WorstLoss: 5}},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got := tc.args.start.Record(tc.args.outcome)
			if diff := cmp.Diff(tc.want.streak, got); diff != "" {
				t.Errorf("\n%s\nRecord(...): -want, +got:\n%s", tc.reason, diff)
			}
		})
	}
}

func TestReplayMonotonic(t *testing.T) {
	outcomes := []Outcome{Win, Win, Loss, Win, Win, Win, Loss, Loss, Win, Loss}

	s := New()
	for i, o := range outcomes {
		next := s.Record(o)
		if next.BestWin < s.BestWin || next.WorstLoss < s.WorstLoss {
			t.Fatalf("game %d: extremes decreased from %+v to %+v", i, s, next)
		}
		s = next
	}

	want := Streak{Kind: Losing, Length: 1, BestWin: 3, WorstLoss: 2}
	if diff := cmp.Diff(want, s); diff != "" {
		t.Errorf("Record(...) sequence: -want, +got:\n%s", diff)
	}
	if diff := cmp.Diff(want, Replay(outcomes...)); diff != "" {
		t.Errorf("Replay(...): -want, +got:\n%s", diff)
	}
}

func TestReplayEmpty(t *testing.T) {
	if diff := cmp.Diff(Streak{Kind: Neutral}, Replay()); diff != "" {
		t.Errorf("Replay(): -want, +got:\n%s", diff)
	}
}

func TestString(t *testing.T) {
	cases := map[string]struct {
		streak Streak
		want   string
	}{
		"Neutral": {streak: New(), want: "-"},
		"Winning": {streak: Streak{Kind: Winning, Length: 3}, want: "W3"},
		"Losing":  {streak: Streak{Kind: Losing, Length: 12}, want: "L12"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, tc.streak.String()); diff != "" {
				t.Errorf("String(): -want, +got:\n%s", diff)
			}
		})
	}
}

func TestFormPush(t *testing.T) {
	type args struct {
		form    Form
		outcome Outcome
		n       int
	}
	type want struct {
		form   Form
		record string
	}

	cases := map[string]struct {
		reason string
		args   args
		want   want
	}{
		"Empty": {
			reason: "Pushing onto an empty form should yield a single outcome.",
			args:   args{form: "", outcome: Win, n: 5},
			want:   want{form: "W", record: "1-0"},
		},
		"BelowCapacity": {
			reason: "Pushing below capacity should append the outcome last.",
			args:   args{form: "WLW", outcome: Loss, n: 5},
			want:   want{form: "WLWL", record: "2-2"},
		},
		"AtCapacity": {
			reason: "Pushing at capacity should drop the oldest outcome.",
			args:   args{form: "WWLLW", outcome: Loss, n: 5},
			want:   want{form: "WLLWL", record: "2-3"},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got := tc.args.form.Push(tc.args.outcome, tc.args.n)
			if diff := cmp.Diff(tc.want.form, got); diff != "" {
				t.Errorf("\n%s\nPush(...): -want, +got:\n%s", tc.reason, diff)
			}
			if diff := cmp.Diff(tc.want.record, got.Record()); diff != "" {
				t.Errorf("\n%s\nRecord(): -want, +got:\n%s", tc.reason, diff)
			}
		})
	}
}
