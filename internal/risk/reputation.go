package risk

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// ReputationTier buckets a score.
type ReputationTier string

const (
	TierElite    ReputationTier = "Elite"    // score >= 90
	TierTrusted  ReputationTier = "Trusted"  // score >= 75
	TierVerified ReputationTier = "Verified" // below 75
)

// Reputation is the deterministic demo score derived from an address. It is
// synthesized purely from the address's low bits without consulting any
// registry or history, so Demo is always true and consumers must present it
// as placeholder data.
type Reputation struct {
	Score int            `json:"score"`
	Tier  ReputationTier `json:"tier"`
	Demo  bool           `json:"demo"`

	// Sub-metrics, each derived from the same seed with its own
	// offset/range, capped at 100.
	TransactionHistory int `json:"transactionHistory"`
	OnTimeRepayments   int `json:"onTimeRepayments"`
	CollateralRatio    int `json:"collateralRatio"`
	AccountAge         int `json:"accountAge"`
}

// ReputationFor computes the demo reputation for an address. The score is
// deterministic for a fixed address and always lies in [65, 99].
func ReputationFor(address string) Reputation {
	seed := addressSeed(address)
	score := 65 + seed%35

	tier := TierVerified
	switch {
	case score >= 90:
		tier = TierElite
	case score >= 75:
		tier = TierTrusted
	}

	return Reputation{
		Score:              score,
		Tier:               tier,
		Demo:               true,
		TransactionHistory: capped(50 + seed%50),
		OnTimeRepayments:   capped(70 + seed%30),
		CollateralRatio:    capped(60 + seed%40),
		AccountAge:         capped(40 + seed%60),
	}
}

// addressSeed extracts the low 16 bits of the address.
func addressSeed(address string) int {
	b := common.HexToAddress(strings.TrimSpace(address)).Bytes()
	return int(b[18])<<8 | int(b[19])
}

func capped(v int) int {
	if v > 100 {
		return 100
	}
	return v
}
