// Package telegram implements the Telegram channel adapter: the free-text
// transaction parser and the bot gateway dispatching inbound messages.
package telegram

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/controle-financeiro/backend/internal/domain/entity"
)

// Message patterns, tried in order. The number token accepts "," or "." as
// decimal separator with at most two fractional digits.
var (
	rePlus     = regexp.MustCompile(`^\+?\s*(\d+(?:[.,]\d{1,2})?)\s*(.*)$`)
	reMinus    = regexp.MustCompile(`^-\s*(\d+(?:[.,]\d{1,2})?)\s*(.*)$`)
	reEntrada  = regexp.MustCompile(`(?i)^entrada\s+(\d+(?:[.,]\d{1,2})?)\s*(.*)$`)
	reSaida    = regexp.MustCompile(`(?i)^sa[ií]da\s+(\d+(?:[.,]\d{1,2})?)\s*(.*)$`)
	reNumFirst = regexp.MustCompile(`^(\d+(?:[.,]\d{1,2})?)\s+(.+)$`)
)

// ParseMessage interprets a free-text message as a transaction intent.
// It is a deterministic first-match pattern matcher over the conventions
// "entrada 100", "saída 50 mercado", "+200", "-30 lanche" and "100 almoço".
// It returns nil when the text is not a transaction: commands (leading "/"),
// unmatched shapes, and amounts that are not strictly positive.
//
// Precedence is part of the contract. Symbolic forms are tried before the
// keyword forms, and the permissive number-then-text fallback comes last so
// it cannot shadow the specific shapes. One consequence is kept on purpose
// for compatibility: "100 entrada" resolves via the bare-number rule as an
// inflow with memo "entrada"; the fallback's special case for the literal
// word "entrada" never sees it.
func ParseMessage(text string) *entity.ParsedIntent {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}

	// Commands are never transactions.
	if strings.HasPrefix(trimmed, "/") {
		return nil
	}

	// "+100", "+100,50 salário" or bare "100" - inflow by default.
	if m := rePlus.FindStringSubmatch(trimmed); m != nil {
		if amount := parseAmount(m[1]); amount.IsPositive() {
			return &entity.ParsedIntent{
				Direction: entity.DirectionInflow,
				Amount:    amount,
				Memo:      strings.TrimSpace(m[2]),
			}
		}
	}

	// "-50", "-30 lanche" - outflow.
	if m := reMinus.FindStringSubmatch(trimmed); m != nil {
		if amount := parseAmount(m[1]); amount.IsPositive() {
			return &entity.ParsedIntent{
				Direction: entity.DirectionOutflow,
				Amount:    amount,
				Memo:      strings.TrimSpace(m[2]),
			}
		}
	}

	// "entrada 100", "entrada 100 salário".
	if m := reEntrada.FindStringSubmatch(trimmed); m != nil {
		if amount := parseAmount(m[1]); amount.IsPositive() {
			return &entity.ParsedIntent{
				Direction: entity.DirectionInflow,
				Amount:    amount,
				Memo:      strings.TrimSpace(m[2]),
			}
		}
	}

	// "saída 50", "saida 50 mercado".
	if m := reSaida.FindStringSubmatch(trimmed); m != nil {
		if amount := parseAmount(m[1]); amount.IsPositive() {
			return &entity.ParsedIntent{
				Direction: entity.DirectionOutflow,
				Amount:    amount,
				Memo:      strings.TrimSpace(m[2]),
			}
		}
	}

	// Number first, free text second: "100 entrada" is an inflow with no
	// memo, anything else is an outflow with the text as memo.
	if m := reNumFirst.FindStringSubmatch(trimmed); m != nil {
		if amount := parseAmount(m[1]); amount.IsPositive() {
			rest := strings.ToLower(strings.TrimSpace(m[2]))
			if rest == "entrada" {
				return &entity.ParsedIntent{
					Direction: entity.DirectionInflow,
					Amount:    amount,
				}
			}
			return &entity.ParsedIntent{
				Direction: entity.DirectionOutflow,
				Amount:    amount,
				Memo:      rest,
			}
		}
	}

	return nil
}

// parseAmount normalizes a numeric token into a currency value. The ","
// separator is normalized to ".", and the result is rounded to 2 fractional
// digits half-away-from-zero (decimal.Round semantics), so "10,555" becomes
// 10.56. Tokens that do not parse return zero, which callers treat as
// "no amount" - zero is never a valid transaction value.
func parseAmount(token string) decimal.Decimal {
	normalized := strings.ReplaceAll(token, ",", ".")
	amount, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero
	}
	return amount.Round(2)
}
