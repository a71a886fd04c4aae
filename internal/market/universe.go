package market

// DefaultTokens is the fixed universe of tradable tokens tracked by the
// refresh pipeline. Overridable via TRACKED_TOKENS.
var DefaultTokens = []string{
	"ETH", "BTC", "APT", "SUI", "TRUMP", "ADA", "XRP",
	"NEIRO", "DOGS", "PNUT", "FLOKI", "BOME", "LTC", "DOGE", "EIGEN", "TAO", "ZRO",
	"OP", "SHIB", "TON", "BONK", "HBAR", "ENA", "W", "PEPE", "LINK", "WIF", "WLD",
	"STRK", "INJ", "JUP", "MANTA", "SEI", "AVAX", "BLUR", "PYTH", "MEME", "TIA",
	"BNB", "MATIC", "SOL", "ARB",
}
