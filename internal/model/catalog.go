package model

import (
	"slices"
	"strings"
)

// Categories is the closed set of business archetypes a lead can be
// classified into.
var Categories = []string{
	"Payment Service Provider",
	"Acquirer / Processor",
	"Payment Gateway",
	"E-commerce Platform",
	"Fintech / Neobank",
	"Crypto Infrastructure",
	"Wallet Provider",
	"POS Provider",
	"Marketplace",
	"Merchant",
	"Other",
}

// Industries is the closed set of merchant verticals. Only leads with
// category "Merchant" carry an industry.
var Industries = []string{
	"Payment Processing & Acquiring",
	"Banking & Financial Services",
	"Fintech & Neobanks",
	"E-commerce & Retail",
	"Marketplaces & Platforms",
	"Gaming & Digital Entertainment",
	"Travel & Hospitality",
	"Healthcare & Wellness",
	"Real Estate & PropTech",
	"Logistics & Supply Chain",
	"SaaS & Enterprise Software",
	"Media & Content",
	"Education & EdTech",
	"Telecommunications",
	"Other",
}

// EmployeeBrackets are the closed employee-count ranges.
var EmployeeBrackets = []string{"1-10", "10-100", "100-500", "500-5000", "5000+"}

// RevenueBrackets are the closed annual-revenue ranges.
var RevenueBrackets = []string{"<$1M", "$1-10M", "$10-100M", "$100-500M", "$500M+"}

// ValueProp is one entry of the closed value-proposition catalog.
type ValueProp struct {
	Key         string
	Description string
}

// PartnerValueProps is the catalog used for non-Merchant leads: payment
// companies evaluated as distribution partners.
var PartnerValueProps = []ValueProp{
	{Key: "Lower Fees", Description: "0.5-1% vs 2.5-3.5% for cards, direct margin improvement on every transaction"},
	{Key: "Instant Settlement", Description: "Funds settle in seconds, not 1-3 days for cards or 30+ days for some APMs"},
	{Key: "Global Reach", Description: "500M+ reachable wallet users across 700+ wallets, no card network required"},
	{Key: "Compliance", Description: "Travel rule compliance and sanctions screening built in, reduces regulatory risk across jurisdictions"},
	{Key: "New Volumes", Description: "Attracts crypto-native customers with 15-20% larger average baskets"},
	{Key: "Single API", Description: "One integration with built-in KYC/AML, plugs into existing PSP stacks"},
}

// MerchantValueProps is the catalog used for Merchant leads: cost and
// revenue framing for commerce businesses.
var MerchantValueProps = []ValueProp{
	{Key: "Lower Fees", Description: "0.5-1% vs 2.5-3.5% for cards, more margin on every sale"},
	{Key: "Instant Settlement", Description: "Cash in the account in seconds instead of days"},
	{Key: "No Chargebacks", Description: "Wallet payments are push transactions, chargeback fraud disappears"},
	{Key: "New Customers", Description: "500M+ wallet users who prefer paying in stablecoins"},
	{Key: "Higher Conversion", Description: "One-tap wallet checkout, no card form abandonment"},
	{Key: "Global Reach", Description: "Accept payments from any market without local acquiring"},
}

// ValuePropsFor returns the catalog matching the lead's Merchant/non-Merchant
// branch.
func ValuePropsFor(category string) []ValueProp {
	if category == "Merchant" {
		return MerchantValueProps
	}
	return PartnerValueProps
}

// ValuePropKeys lists the catalog keys for prompt construction.
func ValuePropKeys(catalog []ValueProp) []string {
	keys := make([]string, len(catalog))
	for i, vp := range catalog {
		keys[i] = vp.Key
	}
	return keys
}

// ValidCategory reports whether c is in the closed category set.
func ValidCategory(c string) bool {
	return slices.Contains(Categories, c)
}

// ValidIndustry reports whether s is in the closed industry set.
func ValidIndustry(s string) bool {
	return slices.Contains(Industries, s)
}

// ValidEmployeeBracket reports whether b is a known employee range.
func ValidEmployeeBracket(b string) bool {
	return slices.Contains(EmployeeBrackets, b)
}

// ValidRevenueBracket reports whether b is a known revenue range.
func ValidRevenueBracket(b string) bool {
	return slices.Contains(RevenueBrackets, b)
}

// ValidKeyVP reports whether v holds 1-2 comma-separated entries drawn from
// the category-appropriate catalog.
func ValidKeyVP(v, category string) bool {
	if v == "" {
		return false
	}
	parts := strings.Split(v, ",")
	if len(parts) < 1 || len(parts) > 2 {
		return false
	}
	keys := ValuePropKeys(ValuePropsFor(category))
	for _, p := range parts {
		if !slices.Contains(keys, strings.TrimSpace(p)) {
			return false
		}
	}
	return true
}
