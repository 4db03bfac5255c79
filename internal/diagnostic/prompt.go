// Storelens - E-commerce Analytics Reporting Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storelens

package diagnostic

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/tomtom215/storelens/internal/models"
	"github.com/tomtom215/storelens/internal/period"
)

const promptTemplate = `
Você é um analista sênior de Web Analytics especializado em e-commerce.

Abaixo estão os dados do cliente **%s**, no período de **%s**:

---
📊 **KPIs Gerais**
- Receita Total: R$ %s
- Vendas: %d
- Taxa de Conversão: %s
- Ticket Médio: R$ %s

🏆 **Destaques**
- Canal com maior receita: %s
- Produto mais vendido: %s
- Região com mais acessos: %s

---
🎯 **Instruções para você (IA):**
1. Analise os dados e destaque **pontos de atenção** e **boas oportunidades**.
2. Faça **perguntas estratégicas** que ajudariam o cliente a refletir sobre o desempenho.
3. Dê sugestões práticas de otimização para tráfego, conversão ou engajamento.
4. Evite repetir os dados e foque na **interpretação inteligente**.
5. Seja consultivo, direto e claro.

Escreva como um consultor de performance digital falando com um gestor de e-commerce.
`

const contextTemplate = `
---
📊 Contexto adicional:
- Dispositivo com mais sessões: %s
- Cidade com mais acessos: %s
- Produto de maior receita: %s (R$ %s)
- Abandono no carrinho: %s%%
- Abandono no checkout: %s%%
- Funil de conversão: %d sessões > %d carrinhos > %d checkouts > %d compras
`

const questionHeader = "\n\n🧠 Pergunta adicional do cliente:\n"

// BuildPrompt renders the consultant prompt from the KPIs and highlights.
// Empty highlights render as "N/D".
func BuildPrompt(data Data, customerLabel string, rng period.Range) string {
	k := data.KPIs
	return fmt.Sprintf(promptTemplate,
		customerLabel, rng.String(),
		Money(k.TotalRevenue),
		k.OrderCount,
		Percent(k.ConversionRate),
		Money(k.AverageOrderValue),
		orNotAvailable(data.Highlights.TopChannel),
		orNotAvailable(data.Highlights.TopProduct),
		orNotAvailable(data.Highlights.TopRegion),
	)
}

// BuildDiagnostic renders BuildPrompt followed by the additional context
// block. Abandonment rates are floored at 0 for display only.
func BuildDiagnostic(data Data, customerLabel string, rng period.Range) string {
	name, revenue := Unavailable, 0.0
	if p := data.StrongestProduct; p != nil {
		name, revenue = p.Product, p.Revenue
	}

	extra := fmt.Sprintf(contextTemplate,
		orUnavailable(data.TopDevice),
		orUnavailable(data.TopCity),
		name, fixed(revenue),
		fixed(math.Max(data.Abandonment.CartRate, 0)),
		fixed(math.Max(data.Abandonment.CheckoutRate, 0)),
		data.Funnel.Session, data.Funnel.Cart, data.Funnel.Checkout, data.Funnel.Purchase,
	)
	return BuildPrompt(data, customerLabel, rng) + extra
}

// WithQuestion appends a follow-up question from the client to a prompt.
func WithQuestion(prompt, question string) string {
	return prompt + questionHeader + question
}

// moneyPrinter groups thousands with commas, matching the report layout.
var moneyPrinter = message.NewPrinter(language.English)

// Money formats v with two decimals and comma thousands separators,
// e.g. 1234.5 becomes "1,234.50". Halves round away from zero.
func Money(v float64) string {
	return moneyPrinter.Sprintf("%.2f", decimal.NewFromFloat(v).Round(2).InexactFloat64())
}

// Percent formats a 0-1 ratio as a percentage with two decimals,
// e.g. 0.0231 becomes "2.31%".
func Percent(ratio float64) string {
	return decimal.NewFromFloat(ratio).Mul(decimal.NewFromInt(100)).StringFixed(2) + "%"
}

func fixed(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

func orNotAvailable(s string) string {
	if s == "" {
		return models.NotAvailable
	}
	return s
}

func orUnavailable(s string) string {
	if s == "" {
		return Unavailable
	}
	return s
}
