package knowledge

import (
	"math"
	"strings"
	"testing"
)

func TestLexicalScoreBasicMatch(t *testing.T) {
	score := lexicalScore("CycleGAN project", "Portfolio project:\n- GENERATIVE ART WITH CYCLE GAN: built a CycleGAN", "Generative Art")

	if score <= 0 {
		t.Fatalf("expected score to be positive, got %f", score)
	}
	if score > maxLexicalScore {
		t.Fatalf("score should be clamped to maxLexicalScore, got %f", score)
	}
}

func TestLexicalScoreTitleBonus(t *testing.T) {
	score := lexicalScore("barista", "General context without the keyword.", "Part Time Barista at Tomoro Coffee")

	if math.Abs(float64(score-titleMatchBonus)) > 0.0001 {
		t.Fatalf("expected title bonus only (%f), got %f", titleMatchBonus, score)
	}
}

func TestLexicalScoreStopwordsRemoved(t *testing.T) {
	if score := lexicalScore("what about the", "what about the", ""); score != 0 {
		t.Fatalf("expected score 0 when query tokens are only stopwords, got %f", score)
	}
}

func TestLexicalScoreNormalization(t *testing.T) {
	score := lexicalScore("python", "python "+strings.Repeat(" filler", 200), "")

	if score <= 0 {
		t.Fatalf("expected normalized score to stay positive, got %f", score)
	}
	if score > maxLexicalScore {
		t.Fatalf("expected score to be clamped to %f, got %f", maxLexicalScore, score)
	}
}

func TestLexicalScoreEmptyText(t *testing.T) {
	if score := lexicalScore("python", "", "Python"); score != 0 {
		t.Fatalf("expected 0 for empty text, got %f", score)
	}
}
