package core

import (
	"encoding/json"
	"testing"
)

func TestParseMoney(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"1", "1", true},
		{"1.23", "1.23", true},
		{"1,23", "1.23", true},
		{" 2.50 ", "2.5", true},
		{"-5", "-5", true},
		{"0", "0", true},
		{"abc", "", false},
		{"1.2.3", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseMoney(tc.in)
		if tc.ok {
			if err != nil || got.String() != tc.out {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.out, got, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestMoneyArithmeticIsExact(t *testing.T) {
	sum := Money{}
	for i := 0; i < 10; i++ {
		sum = sum.Add(MustMoney("0.1"))
	}
	if !sum.Equal(NewMoney(1)) {
		t.Fatalf("ten times 0.1 = %s, want 1", sum)
	}
	if got := NewMoney(65000).Mul(NewPercent(15).Ratio()); !got.Equal(NewMoney(9750)) {
		t.Fatalf("65000 * 15%% = %s", got)
	}
}

func TestMoneyFormat(t *testing.T) {
	if got := MustMoney("1250.5").Format("MRU"); got != "UM1,250.50" {
		t.Fatalf("MRU format = %q", got)
	}
	if got := MustMoney("-3").Format("usd"); got != "-$3.00" {
		t.Fatalf("USD format = %q", got)
	}
	if got := NewMoney(7).Format("XXZ"); got != "7.00 XXZ" {
		t.Fatalf("unknown currency format = %q", got)
	}
}

func TestMoneyJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		A Money   `json:"a"`
		P Percent `json:"p"`
	}{MustMoney("12.50"), NewPercent(15)})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"a":12.5,"p":15}` {
		t.Fatalf("unexpected json %s", b)
	}

	var in struct {
		A Money   `json:"a"`
		B Money   `json:"b"`
		P Percent `json:"p"`
	}
	if err := json.Unmarshal([]byte(`{"a":50000,"b":"12.34","p":12.5}`), &in); err != nil {
		t.Fatal(err)
	}
	if !in.A.Equal(NewMoney(50000)) || in.B.String() != "12.34" || in.P.Decimal().String() != "12.5" {
		t.Fatalf("unexpected decode %+v", in)
	}
	if err := json.Unmarshal([]byte(`{"a":"x"}`), &in); err == nil {
		t.Fatal("expected error for non-numeric amount")
	}
}

func TestParsePercent(t *testing.T) {
	p, err := ParsePercent("12,5%")
	if err != nil || p.Decimal().String() != "12.5" {
		t.Fatalf("got %v err=%v", p, err)
	}
	if _, err := ParsePercent("ten"); err == nil {
		t.Fatal("expected error")
	}
	if NewPercent(101).InRange() || !NewPercent(0).InRange() || NewPercent(-1).InRange() {
		t.Fatal("InRange mismatch")
	}
}
