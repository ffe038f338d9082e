package chat

import (
	"context"
	"strings"
	"time"

	"github.com/iapprendre/catalog-platform/internal/model"
	"github.com/iapprendre/catalog-platform/pkg/metrics"
)

// Rule is one entry of the ordered topic table: the first rule whose trigger
// set contains a substring of the normalized input wins.
type Rule struct {
	Topic    string
	Triggers []string
	Response string
}

// DefaultFallback is the unconditional final response when no rule matches.
const DefaultFallback = "Je peux vous aider avec la grammaire, l'orthographe, le vocabulaire, la conjugaison, l'expression écrite et la lecture. Quel domaine vous intéresse ?"

// DefaultRules returns the canned topic table. Order is the tie-break:
// greeting and thanks rules sit after the topic rules, so an input naming a
// topic always gets the topic answer.
func DefaultRules() []Rule {
	return []Rule{
		{
			Topic:    "grammaire",
			Triggers: []string{"grammaire", "grammatical"},
			Response: "Pour la grammaire française, je recommande Antidote, LanguageTool et Bon Patron. Ces outils excellent dans la correction grammaticale et l'analyse syntaxique.",
		},
		{
			Topic:    "orthographe",
			Triggers: []string{"orthographe", "faute"},
			Response: "Pour l'orthographe, utilisez Scribens, Reverso ou Le Robert Correcteur. Ils offrent une correction précise et des explications détaillées.",
		},
		{
			Topic:    "vocabulaire",
			Triggers: []string{"vocabulaire", "mot"},
			Response: "Pour enrichir le vocabulaire, essayez Wordreference, Larousse en ligne, ou encore Quizlet pour créer des exercices interactifs.",
		},
		{
			Topic:    "conjugaison",
			Triggers: []string{"conjugaison", "verbe"},
			Response: "Le Conjugueur, Bescherelle en ligne et Reverso Conjugaison sont parfaits pour maîtriser les conjugaisons françaises.",
		},
		{
			Topic:    "expression",
			Triggers: []string{"expression", "écrire", "rédaction"},
			Response: "Pour l'expression écrite, utilisez Hemingway Editor (adapté au français), Antidote ou encore Grammarly Premium avec support français.",
		},
		{
			Topic:    "lecture",
			Triggers: []string{"lecture", "compréhension", "lire"},
			Response: "Pour la compréhension de lecture, essayez Lalilo, 1000 mots ou encore les ressources de TV5Monde Apprendre.",
		},
		{
			Topic:    "salutation",
			Triggers: []string{"bonjour", "salut"},
			Response: "Bonjour ! Ravi de vous rencontrer. Je suis là pour vous guider dans le choix des meilleurs outils IA pour l'enseignement du français. Que recherchez-vous ?",
		},
		{
			Topic:    "remerciement",
			Triggers: []string{"merci"},
			Response: "De rien ! N'hésitez pas si vous avez d'autres questions sur les outils d'IA pour l'enseignement du français.",
		},
	}
}

// RuleResponder is the default, fully offline response strategy: an ordered
// table of substring triggers with a fixed typing delay to emulate a human
// assistant.
type RuleResponder struct {
	rules       []Rule
	fallback    string
	typingDelay time.Duration
}

// NewRuleResponder creates a rule-based responder.
func NewRuleResponder(rules []Rule, fallback string, typingDelay time.Duration) *RuleResponder {
	return &RuleResponder{
		rules:       rules,
		fallback:    fallback,
		typingDelay: typingDelay,
	}
}

// Reply matches the latest user message against the table and returns the
// first matching rule's response, or the fallback. The simulated typing delay
// is cut short when the context is done, still returning a response.
func (r *RuleResponder) Reply(ctx context.Context, transcript []model.ChatMessage) (string, error) {
	if r.typingDelay > 0 {
		timer := time.NewTimer(r.typingDelay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
		}
	}

	input := strings.ToLower(lastUserText(transcript))

	for _, rule := range r.rules {
		for _, trigger := range rule.Triggers {
			if strings.Contains(input, trigger) {
				metrics.ChatRuleMatchesTotal.WithLabelValues(rule.Topic).Inc()
				return rule.Response, nil
			}
		}
	}

	metrics.ChatRuleMatchesTotal.WithLabelValues("default").Inc()
	return r.fallback, nil
}

func lastUserText(transcript []model.ChatMessage) string {
	for i := len(transcript) - 1; i >= 0; i-- {
		if transcript[i].Sender == model.SenderUser {
			return transcript[i].Text
		}
	}
	return ""
}
