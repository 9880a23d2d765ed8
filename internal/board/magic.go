package board

// Magic bitboards for sliding piece attacks. Magic numbers are searched at
// start-up with a fixed-seed generator, so the tables are reproducible.

// Magic holds the magic bitboard data for a single square.
type Magic struct {
	Mask    Bitboard   // Relevant occupancy mask (excludes edges)
	Magic   uint64     // Magic multiplier
	Shift   uint8      // Bits to shift right
	Attacks []Bitboard // Slice of the shared attack table
}

func (m *Magic) index(occupied Bitboard) uint64 {
	return (uint64(occupied&m.Mask) * m.Magic) >> m.Shift
}

func (m *Magic) attacks(occupied Bitboard) Bitboard {
	return m.Attacks[m.index(occupied)]
}

var (
	bishopMagics [64]Magic
	rookMagics   [64]Magic

	bishopTable [5248]Bitboard
	rookTable   [102400]Bitboard
)

func initMagics() {
	rng := newPRNG(0x2C6FE96EE78B6955)
	initSliderMagics(&bishopMagics, bishopTable[:], bishopAttacksSlow, rng)
	initSliderMagics(&rookMagics, rookTable[:], rookAttacksSlow, rng)
}

// initSliderMagics fills magics and carves table into per-square slices.
// Occupancy subsets are enumerated with the Carry-Rippler trick and candidate
// magics are tried until no two subsets with different attacks collide.
func initSliderMagics(magics *[64]Magic, table []Bitboard, slow func(Square, Bitboard) Bitboard, rng *prng) {
	var (
		occupancy [4096]Bitboard
		reference [4096]Bitboard
		epoch     [4096]int
	)
	offset := 0
	attempt := 0

	for sq := A1; sq <= H8; sq++ {
		edges := ((Rank1 | Rank8) &^ rankMaskOf(sq)) | ((FileA | FileH) &^ fileMaskOf(sq))
		m := &magics[sq]
		m.Mask = slow(sq, Empty) &^ edges
		bits := m.Mask.PopCount()
		m.Shift = uint8(64 - bits)
		size := 1 << bits
		m.Attacks = table[offset : offset+size]
		offset += size

		n := 0
		for b := Empty; ; {
			occupancy[n] = b
			reference[n] = slow(sq, b)
			n++
			b = (b - m.Mask) & m.Mask
			if b == 0 {
				break
			}
		}

		for i := 0; i < n; {
			for m.Magic = 0; Bitboard((m.Magic*uint64(m.Mask))>>56).PopCount() < 6; {
				m.Magic = rng.sparse()
			}
			attempt++
			for i = 0; i < n; i++ {
				idx := m.index(occupancy[i])
				if epoch[idx] < attempt {
					epoch[idx] = attempt
					m.Attacks[idx] = reference[i]
				} else if m.Attacks[idx] != reference[i] {
					break
				}
			}
		}
	}
}

func rankMaskOf(sq Square) Bitboard {
	return Rank1 << (8 * uint(sq.Rank()))
}

func fileMaskOf(sq Square) Bitboard {
	return FileA << uint(sq.File())
}

// bishopAttacksSlow computes bishop attacks by ray casting (initialization only).
func bishopAttacksSlow(sq Square, occupied Bitboard) Bitboard {
	return rayAttacks(sq, occupied, [4][2]int{{1, 1}, {-1, 1}, {1, -1}, {-1, -1}})
}

// rookAttacksSlow computes rook attacks by ray casting (initialization only).
func rookAttacksSlow(sq Square, occupied Bitboard) Bitboard {
	return rayAttacks(sq, occupied, [4][2]int{{0, 1}, {0, -1}, {1, 0}, {-1, 0}})
}

func rayAttacks(sq Square, occupied Bitboard, dirs [4][2]int) Bitboard {
	var attacks Bitboard
	for _, d := range dirs {
		f, r := sq.File()+d[0], sq.Rank()+d[1]
		for f >= 0 && f <= 7 && r >= 0 && r <= 7 {
			s := SquareBB(NewSquare(f, r))
			attacks |= s
			if occupied&s != 0 {
				break
			}
			f, r = f+d[0], r+d[1]
		}
	}
	return attacks
}
