package pipeline

// Config carries all tuning data for the recognition pipeline. It is
// read-only after construction; per-call overrides are done by passing a
// modified copy to New.
type Config struct {
	// Whitelist restricts the recognition engine to characters expected on
	// a bank statement.
	Whitelist string
	// PageSegMode is the tesseract segmentation mode. 6 = single uniform
	// block of text, which matches a statement's transaction table.
	PageSegMode int
	// PreserveSpacing keeps inter-word spacing in the engine output so
	// column positions survive recognition.
	PreserveSpacing bool

	// Stage 1 tuning.
	Contrast        float64 // percentage boost, e.g. 20
	Brightness      float64 // percentage boost, e.g. 10
	BlurSigma       float64 // light noise smoothing
	SigmoidMidpoint float64 // normalization midpoint
	SigmoidFactor   float64 // normalization strength

	// Stage 3 tuning.
	Vocabulary []string
	// MatchThreshold is the maximum normalized edit distance (0-1) for a
	// vocabulary correction to be accepted.
	MatchThreshold float64
	// NeutralEnhancement is the enhancement confidence reported when no
	// corrections occurred.
	NeutralEnhancement float64
}

// bankingVocabulary is the fixed set of terms Stage 3 corrects toward.
var bankingVocabulary = []string{
	"BALANCE", "DEPOSIT", "WITHDRAWAL", "TRANSFER", "PAYMENT", "CHECK",
	"FEE", "INTEREST", "DIVIDEND", "REFUND", "PURCHASE", "DEBIT", "CREDIT",
	"ACH", "WIRE", "ATM", "POS", "OVERDRAFT", "NSF", "RETURNED", "CLEARED",
	"PENDING", "AUTHORIZED", "DECLINED", "APPROVED", "TRANSACTION",
}

// DefaultConfig returns the tuning used in production.
func DefaultConfig() Config {
	return Config{
		Whitelist:          "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz.,()-/$ ",
		PageSegMode:        6,
		PreserveSpacing:    true,
		Contrast:           20,
		Brightness:         10,
		BlurSigma:          0.6,
		SigmoidMidpoint:    0.5,
		SigmoidFactor:      3.0,
		Vocabulary:         bankingVocabulary,
		MatchThreshold:     0.3,
		NeutralEnhancement: 0.5,
	}
}
