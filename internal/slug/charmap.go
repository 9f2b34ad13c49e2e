package slug

import "golang.org/x/text/language"

// baseCharMap transliterates symbols and letters that do not decompose into an
// ASCII base plus combining marks.
var baseCharMap = map[rune]string{
	'$': "dollar",
	'%': "percent",
	'&': "and",
	'<': "less",
	'>': "greater",
	'|': "or",
	'¢': "cent",
	'£': "pound",
	'¤': "currency",
	'¥': "yen",
	'©': "(c)",
	'ª': "a",
	'®': "(r)",
	'º': "o",
	'Æ': "AE",
	'æ': "ae",
	'Ð': "D",
	'ð': "d",
	'Đ': "DJ",
	'đ': "dj",
	'ı': "i",
	'Ł': "L",
	'ł': "l",
	'Œ': "OE",
	'œ': "oe",
	'Ø': "O",
	'ø': "o",
	'Þ': "TH",
	'þ': "th",
	'ẞ': "SS",
	'ß': "ss",
	'€': "euro",
	'₹': "indian rupee",
	'™': "tm",
	'∑': "sum",
	'∞': "infinity",
	'♥': "love",
}

// localeCharMaps override baseCharMap per language base.
var localeCharMaps = map[string]map[rune]string{
	"fr": {
		'%': "pourcent",
		'&': "et",
		'<': "plus petit",
		'>': "plus grand",
		'|': "ou",
		'¢': "centime",
		'£': "livre",
		'¤': "devise",
		'₣': "franc",
	},
	"de": {
		'Ä': "AE",
		'ä': "ae",
		'Ö': "OE",
		'ö': "oe",
		'Ü': "UE",
		'ü': "ue",
		'ẞ': "SS",
		'ß': "ss",
		'%': "prozent",
		'&': "und",
		'|': "oder",
		'∑': "summe",
		'∞': "unendlich",
		'♥': "liebe",
	},
	"es": {
		'%': "por ciento",
		'&': "y",
		'<': "menor que",
		'>': "mayor que",
		'|': "o",
		'¢': "centavos",
		'£': "libras",
		'¤': "moneda",
		'₣': "francos",
		'∑': "suma",
		'∞': "infinito",
		'♥': "amor",
	},
}

func localeTable(tag language.Tag) map[rune]string {
	base, conf := tag.Base()
	if conf == language.No {
		return nil
	}
	return localeCharMaps[base.String()]
}
