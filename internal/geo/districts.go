package geo

// CapitalDistrict is the delivery zone boundary: orders inside it ship at the
// lower fee.
const CapitalDistrict = "ঢাকা"

// districtThanas maps every district to its selectable thana list. Districts
// without collected thana data map to an empty list, which relaxes the thana
// requirement at checkout rather than blocking the order.
var districtThanas = map[string][]string{
	"ঢাকা": {
		"ধানমন্ডি", "গুলশান", "বনানী", "মিরপুর", "মোহাম্মদপুর", "উত্তরা",
		"বাড্ডা", "মতিঝিল", "পল্টন", "রমনা", "তেজগাঁও", "খিলগাঁও",
		"যাত্রাবাড়ী", "ওয়ারী", "লালবাগ", "সাভার", "ধামরাই", "দোহার",
		"কেরানীগঞ্জ", "নবাবগঞ্জ",
	},
	"চট্টগ্রাম": {
		"কোতোয়ালী", "পাঁচলাইশ", "ডবলমুরিং", "হালিশহর", "পাহাড়তলী",
		"চান্দগাঁও", "পতেঙ্গা", "সীতাকুণ্ড", "মীরসরাই", "হাটহাজারী",
		"রাউজান", "পটিয়া", "আনোয়ারা",
	},
	"গাজীপুর":     {"গাজীপুর সদর", "টঙ্গী", "কালিয়াকৈর", "কাপাসিয়া", "শ্রীপুর"},
	"নারায়ণগঞ্জ":  {"নারায়ণগঞ্জ সদর", "ফতুল্লা", "সিদ্ধিরগঞ্জ", "সোনারগাঁও", "রূপগঞ্জ", "আড়াইহাজার", "বন্দর"},
	"সিলেট":       {"সিলেট সদর", "বিয়ানীবাজার", "গোলাপগঞ্জ", "জৈন্তাপুর", "কোম্পানীগঞ্জ"},
	"রাজশাহী":     {"বোয়ালিয়া", "মতিহার", "রাজপাড়া", "শাহমখদুম", "পবা"},
	"খুলনা":       {"খুলনা সদর", "সোনাডাঙ্গা", "খালিশপুর", "দৌলতপুর", "ডুমুরিয়া"},
	"বরিশাল":      {"বরিশাল সদর", "বাকেরগঞ্জ", "বাবুগঞ্জ", "মুলাদী", "হিজলা"},
	"রংপুর":       {"রংপুর সদর", "মিঠাপুকুর", "পীরগাছা", "কাউনিয়া", "গংগাচড়া"},
	"ময়মনসিংহ":   {"ময়মনসিংহ সদর", "ত্রিশাল", "ভালুকা", "মুক্তাগাছা", "গফরগাঁও"},
	"কুমিল্লা":    {"কুমিল্লা সদর", "লাকসাম", "দাউদকান্দি", "চান্দিনা", "দেবীদ্বার"},
	"কক্সবাজার":   {"কক্সবাজার সদর", "চকরিয়া", "টেকনাফ", "উখিয়া", "রামু"},
	"ফরিদপুর":     {}, "গোপালগঞ্জ": {}, "কিশোরগঞ্জ": {}, "মাদারীপুর": {},
	"মানিকগঞ্জ":   {}, "মুন্সীগঞ্জ": {}, "নরসিংদী": {}, "রাজবাড়ী": {},
	"শরীয়তপুর":   {}, "টাঙ্গাইল": {}, "বান্দরবান": {}, "ব্রাহ্মণবাড়িয়া": {},
	"চাঁদপুর":     {}, "ফেনী": {}, "খাগড়াছড়ি": {}, "লক্ষ্মীপুর": {},
	"নোয়াখালী":   {}, "রাঙ্গামাটি": {}, "বগুড়া": {}, "জয়পুরহাট": {},
	"নওগাঁ":       {}, "নাটোর": {}, "চাঁপাইনবাবগঞ্জ": {}, "পাবনা": {},
	"সিরাজগঞ্জ":   {}, "বাগেরহাট": {}, "চুয়াডাঙ্গা": {}, "যশোর": {},
	"ঝিনাইদহ":     {}, "কুষ্টিয়া": {}, "মাগুরা": {}, "মেহেরপুর": {},
	"নড়াইল":      {}, "সাতক্ষীরা": {}, "বরগুনা": {}, "ভোলা": {},
	"ঝালকাঠি":     {}, "পটুয়াখালী": {}, "পিরোজপুর": {}, "হবিগঞ্জ": {},
	"মৌলভীবাজার":  {}, "সুনামগঞ্জ": {}, "দিনাজপুর": {}, "গাইবান্ধা": {},
	"কুড়িগ্রাম":  {}, "লালমনিরহাট": {}, "নীলফামারী": {}, "পঞ্চগড়": {},
	"ঠাকুরগাঁও":   {}, "জামালপুর": {}, "নেত্রকোণা": {}, "শেরপুর": {},
}

// districtOrder fixes the dropdown ordering: capital first, then the other
// divisional headquarters, then everything else alphabetically as collected.
var districtOrder = []string{
	"ঢাকা", "চট্টগ্রাম", "রাজশাহী", "খুলনা", "বরিশাল", "সিলেট", "রংপুর", "ময়মনসিংহ",
	"গাজীপুর", "নারায়ণগঞ্জ", "কুমিল্লা", "কক্সবাজার",
	"ফরিদপুর", "গোপালগঞ্জ", "কিশোরগঞ্জ", "মাদারীপুর", "মানিকগঞ্জ", "মুন্সীগঞ্জ",
	"নরসিংদী", "রাজবাড়ী", "শরীয়তপুর", "টাঙ্গাইল", "বান্দরবান", "ব্রাহ্মণবাড়িয়া",
	"চাঁদপুর", "ফেনী", "খাগড়াছড়ি", "লক্ষ্মীপুর", "নোয়াখালী", "রাঙ্গামাটি",
	"বগুড়া", "জয়পুরহাট", "নওগাঁ", "নাটোর", "চাঁপাইনবাবগঞ্জ", "পাবনা",
	"সিরাজগঞ্জ", "বাগেরহাট", "চুয়াডাঙ্গা", "যশোর", "ঝিনাইদহ", "কুষ্টিয়া",
	"মাগুরা", "মেহেরপুর", "নড়াইল", "সাতক্ষীরা", "বরগুনা", "ভোলা",
	"ঝালকাঠি", "পটুয়াখালী", "পিরোজপুর", "হবিগঞ্জ", "মৌলভীবাজার", "সুনামগঞ্জ",
	"দিনাজপুর", "গাইবান্ধা", "কুড়িগ্রাম", "লালমনিরহাট", "নীলফামারী", "পঞ্চগড়",
	"ঠাকুরগাঁও", "জামালপুর", "নেত্রকোণা", "শেরপুর",
}
