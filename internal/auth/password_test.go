package auth

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestDetectPassword(t *testing.T) {
	hash, err := HashPassword("s3cret", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !DetectPassword(hash).Hashed() {
		t.Fatalf("bcrypt hash not detected as hashed: %q", hash)
	}
	for _, v := range []string{"s3cret", "", "$2x$ not a real prefix", "plain$2a$tail"} {
		if DetectPassword(v).Hashed() {
			t.Fatalf("plaintext %q detected as hashed", v)
		}
	}
}

func TestVerifyHashed(t *testing.T) {
	hash, err := HashPassword("correct horse", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	p := DetectPassword(hash)
	if !p.Verify("correct horse") {
		t.Fatalf("right password rejected")
	}
	if p.Verify("battery staple") {
		t.Fatalf("wrong password accepted")
	}
}

func TestVerifyPlaintext(t *testing.T) {
	p := DetectPassword("legacy-pass")
	if !p.Verify("legacy-pass") {
		t.Fatalf("exact plaintext rejected")
	}
	if p.Verify("legacy-pas") || p.Verify("legacy-pass ") {
		t.Fatalf("near-miss plaintext accepted")
	}
}

func TestHashPasswordClampsCost(t *testing.T) {
	hash, err := HashPassword("pw", 99)
	if err != nil {
		t.Fatalf("HashPassword with out-of-range cost: %v", err)
	}
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		t.Fatalf("Cost: %v", err)
	}
	if cost != bcrypt.DefaultCost {
		t.Fatalf("cost = %d, want default %d", cost, bcrypt.DefaultCost)
	}
}
