// SPDX-License-Identifier: GPL-2.0-or-later

package cmd

import "testing"

func TestParse(t *testing.T) {
	for _, tc := range []struct {
		in     string
		wantF  string
		wantAS string
		wantA  []QArg
	}{
		{
			in:     `mcache`,
			wantF:  `mcache`,
			wantAS: ``,
			wantA:  []QArg{{"mcache"}},
		},
		{
			in:     `set r_nolerp_list "progs/flame.mdl,progs/bolt.mdl"`,
			wantF:  `set r_nolerp_list "progs/flame.mdl,progs/bolt.mdl"`,
			wantAS: `r_nolerp_list "progs/flame.mdl,progs/bolt.mdl"`,
			wantA:  []QArg{{"set"}, {"r_nolerp_list"}, {"progs/flame.mdl,progs/bolt.mdl"}},
		},
		{
			in:     `toggle "r_novis"`,
			wantF:  `toggle "r_novis"`,
			wantAS: `r_novis`,
			wantA:  []QArg{{"toggle"}, {"r_novis"}},
		},
		{
			in:     ` set  developer 1 // noisy `,
			wantF:  `set  developer 1 // noisy`,
			wantAS: `developer 1 // noisy`,
			wantA:  []QArg{{"set"}, {"developer"}, {"1"}},
		},
	} {
		arg := Parse(tc.in)
		if tc.wantF != arg.Full() {
			t.Errorf("Parse(%q).Full()=%q, want %q", tc.in, arg.Full(), tc.wantF)
		}
		if tc.wantAS != arg.ArgumentString() {
			t.Errorf("Parse(%q).ArgumentString()=%q, want %q", tc.in, arg.ArgumentString(), tc.wantAS)
		}
		as := arg.Args()
		if len(tc.wantA) != len(as) {
			t.Fatalf("Parse(%q).Args() has len(%d), want %d", tc.in, len(as), len(tc.wantA))
		}
		for i := range tc.wantA {
			if tc.wantA[i] != as[i] {
				t.Errorf("Arg[%d]=%q, want %q", i, as[i], tc.wantA[i])
			}
		}
	}
}

func TestExecute(t *testing.T) {
	c := New()
	var got string
	Must(c.Add("Echo", func(a Arguments) error {
		got = a.Argv(1).String()
		return nil
	}))
	if err := c.Add("echo", nil); err == nil {
		t.Errorf("adding echo twice succeeded")
	}
	ok, err := c.Execute(Parse("ECHO hi"))
	if !ok || err != nil || got != "hi" {
		t.Errorf("Execute = %v,%v got %q", ok, err, got)
	}
	if ok, _ := c.Execute(Parse("nope")); ok {
		t.Errorf("unknown command executed")
	}
}
