package core

import (
	"math/big"
	"testing"
)

func testField(t *testing.T) *Field {
	t.Helper()
	f, err := NewField(GoldilocksModulus)
	if err != nil {
		t.Fatalf("NewField: %v", err)
	}
	return f
}

func TestFieldArithmeticLaws(t *testing.T) {
	f := testField(t)
	a := f.NewElementFromUint64(17)
	b := f.NewElementFromUint64(42)
	c := f.NewElementFromUint64(1001)

	t.Run("commutative add", func(t *testing.T) {
		if !a.Add(b).Equal(b.Add(a)) {
			t.Fatal("a+b != b+a")
		}
	})

	t.Run("commutative mul", func(t *testing.T) {
		if !a.Mul(b).Equal(b.Mul(a)) {
			t.Fatal("a*b != b*a")
		}
	})

	t.Run("associative add", func(t *testing.T) {
		lhs := a.Add(b).Add(c)
		rhs := a.Add(b.Add(c))
		if !lhs.Equal(rhs) {
			t.Fatal("(a+b)+c != a+(b+c)")
		}
	})

	t.Run("associative mul", func(t *testing.T) {
		lhs := a.Mul(b).Mul(c)
		rhs := a.Mul(b.Mul(c))
		if !lhs.Equal(rhs) {
			t.Fatal("(a*b)*c != a*(b*c)")
		}
	})

	t.Run("distributive", func(t *testing.T) {
		lhs := a.Mul(b.Add(c))
		rhs := a.Mul(b).Add(a.Mul(c))
		if !lhs.Equal(rhs) {
			t.Fatal("a*(b+c) != a*b+a*c")
		}
	})

	t.Run("additive inverse", func(t *testing.T) {
		if !a.Add(a.Neg()).IsZero() {
			t.Fatal("a + (-a) != 0")
		}
	})

	t.Run("multiplicative inverse", func(t *testing.T) {
		inv, err := a.Inv()
		if err != nil {
			t.Fatalf("Inv: %v", err)
		}
		if !a.Mul(inv).IsOne() {
			t.Fatal("a * inv(a) != 1")
		}
	})

	t.Run("fermat little theorem", func(t *testing.T) {
		pMinus1 := new(big.Int).Sub(f.Modulus(), big.NewInt(1))
		if !a.Exp(pMinus1).IsOne() {
			t.Fatal("a^(p-1) != 1")
		}
	})

	t.Run("zero has no inverse", func(t *testing.T) {
		if _, err := f.Zero().Inv(); err != ErrDivideByZero {
			t.Fatalf("expected ErrDivideByZero, got %v", err)
		}
	})
}

func TestFieldNewElementCanonicalizes(t *testing.T) {
	f := testField(t)
	negative := big.NewInt(-5)
	elem := f.NewElement(negative)
	if elem.Big().Sign() < 0 {
		t.Fatalf("canonical value must be nonnegative, got %s", elem.Big())
	}
	expected := new(big.Int).Mod(negative, f.Modulus())
	if elem.Big().Cmp(expected) != 0 {
		t.Fatalf("expected %s, got %s", expected, elem.Big())
	}
}

func TestFieldPrimitiveRootOfUnity(t *testing.T) {
	f := testField(t)

	for _, n := range []uint64{2, 4, 8, 1024} {
		root, err := f.PrimitiveRootOfUnity(n)
		if err != nil {
			t.Fatalf("PrimitiveRootOfUnity(%d): %v", n, err)
		}
		if !f.IsPrimitiveRootOfUnity(root, n) {
			t.Fatalf("root of order %d failed its own primitivity check", n)
		}
	}
}

func TestFieldPrimitiveRootOfUnsupportedOrder(t *testing.T) {
	f := testField(t)
	// Goldilocks p-1 = 2^32 * (2^32 - 1), so 2^33 does not divide it.
	_, err := f.PrimitiveRootOfUnity(1 << 33)
	if err == nil {
		t.Fatal("expected an error for an order not dividing p-1")
	}
}

func TestPrime521HasTheSpecifiedValue(t *testing.T) {
	p := Prime521()
	want := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 521), big.NewInt(1))
	if p.Cmp(want) != 0 {
		t.Fatalf("Prime521() = %s, want %s", p, want)
	}
}
