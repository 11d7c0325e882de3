package core

import (
	"bytes"
	"crypto/sha256"
	"fmt"
)

// MerkleTree is a binary Merkle tree over an array-backed set of levels.
// The leaf count is padded to the next power of two by repeating the last
// leaf, so every tree has a well-defined full binary shape and every index
// in [0, paddedLeafCount) has an inclusion proof of the same length.
type MerkleTree struct {
	leaves [][]byte // hashed, padded leaves (power-of-two length)
	levels [][][]byte
}

// ProofNode is one step of an inclusion proof: the sibling digest and
// whether the node being proven (not the sibling) is the left child at
// that level.
type ProofNode struct {
	Sibling []byte
	IsLeft  bool
}

// NewMerkleTree builds a tree over data, hashing each entry once to form a
// leaf and padding the leaf count to a power of two by repeating the last
// leaf's hash.
func NewMerkleTree(data [][]byte) (*MerkleTree, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("core: cannot build a Merkle tree over zero leaves")
	}

	leaves := make([][]byte, len(data))
	for i, item := range data {
		leaves[i] = leafHash(item)
	}

	padded := nextPowerOfTwo(len(leaves))
	for len(leaves) < padded {
		leaves = append(leaves, leaves[len(leaves)-1])
	}

	levels := [][][]byte{leaves}
	current := leaves
	for len(current) > 1 {
		next := make([][]byte, len(current)/2)
		for i := range next {
			next[i] = nodeHash(current[2*i], current[2*i+1])
		}
		levels = append(levels, next)
		current = next
	}

	return &MerkleTree{leaves: leaves, levels: levels}, nil
}

// Root returns the tree's root digest.
func (mt *MerkleTree) Root() []byte {
	top := mt.levels[len(mt.levels)-1]
	return top[0]
}

// LeafCount returns the padded number of leaves the tree was built over.
func (mt *MerkleTree) LeafCount() int { return len(mt.leaves) }

// Prove returns the inclusion proof for the leaf at the given index, as an
// ordered list of (sibling, is_left) steps from the leaf up to the root.
func (mt *MerkleTree) Prove(index int) ([]ProofNode, error) {
	if index < 0 || index >= len(mt.leaves) {
		return nil, fmt.Errorf("core: leaf index %d out of range [0, %d)", index, len(mt.leaves))
	}

	proof := make([]ProofNode, 0, len(mt.levels)-1)
	current := index
	for level := 0; level < len(mt.levels)-1; level++ {
		nodes := mt.levels[level]
		if current%2 == 0 {
			proof = append(proof, ProofNode{Sibling: nodes[current+1], IsLeft: true})
		} else {
			proof = append(proof, ProofNode{Sibling: nodes[current-1], IsLeft: false})
		}
		current /= 2
	}
	return proof, nil
}

// VerifyProof recomputes the root from a raw leaf value, its inclusion
// proof, and its index, and reports whether it matches root.
func VerifyProof(root []byte, leaf []byte, proof []ProofNode, index int) bool {
	hash := leafHash(leaf)
	for _, step := range proof {
		if step.IsLeft != (index%2 == 0) {
			return false
		}
		if step.IsLeft {
			hash = nodeHash(hash, step.Sibling)
		} else {
			hash = nodeHash(step.Sibling, hash)
		}
		index /= 2
	}
	return bytes.Equal(hash, root)
}

func leafHash(data []byte) []byte {
	h := sha256.Sum256(data)
	return h[:]
}

func nodeHash(left, right []byte) []byte {
	buf := make([]byte, 0, len(left)+len(right))
	buf = append(buf, left...)
	buf = append(buf, right...)
	h := sha256.Sum256(buf)
	return h[:]
}

func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p *= 2
	}
	return p
}

// MerkleRoot is a convenience wrapper that builds a tree and returns its
// root directly.
func MerkleRoot(data [][]byte) ([]byte, error) {
	tree, err := NewMerkleTree(data)
	if err != nil {
		return nil, err
	}
	return tree.Root(), nil
}
