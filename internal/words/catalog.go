// Package words holds the secret word-pair catalog.
package words

// Pair is one related-but-distinct word pairing. The majority word goes to
// regular players, the minority word to impostors.
type Pair struct {
	// Majority is the word given to non-impostors
	Majority string `json:"majority"`

	// Minority is the word given to impostors
	Minority string `json:"minority"`
}

// DefaultCatalog is the built-in word-pair list used when no custom
// catalog is configured.
var DefaultCatalog = []Pair{
	{Majority: "apple", Minority: "banana"},
	{Majority: "summer", Minority: "winter"},
	{Majority: "basketball", Minority: "soccer"},
	{Majority: "piano", Minority: "violin"},
	{Majority: "airplane", Minority: "train"},
	{Majority: "glasses", Minority: "watch"},
	{Majority: "elephant", Minority: "lion"},
	{Majority: "phone", Minority: "laptop"},
	{Majority: "umbrella", Minority: "hat"},
	{Majority: "backpack", Minority: "wallet"},
	{Majority: "penguin", Minority: "dolphin"},
	{Majority: "noodles", Minority: "spaghetti"},
	{Majority: "train", Minority: "subway"},
	{Majority: "dumpling", Minority: "wonton"},
	{Majority: "roast duck", Minority: "fried chicken"},
	{Majority: "hotpot", Minority: "barbecue"},
	{Majority: "tears", Minority: "eye drops"},
	{Majority: "date", Minority: "meeting"},
	{Majority: "wife", Minority: "boss"},
	{Majority: "coffee", Minority: "tea"},
	{Majority: "beer", Minority: "cider"},
	{Majority: "cinema", Minority: "theater"},
	{Majority: "pillow", Minority: "cushion"},
	{Majority: "butter", Minority: "margarine"},
}
