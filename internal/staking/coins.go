package staking

import "fmt"

// bybitCoinNames maps Bybit's internal numeric coin ids to ticker
// symbols. The exchange never documents these; the table was assembled
// by cross-referencing product listings against known tickers.
var bybitCoinNames = map[int]string{
	1:  "BTC",
	2:  "ETH",
	3:  "USDT",
	4:  "USDC",
	5:  "BNB",
	6:  "XRP",
	7:  "ADA",
	8:  "DOGE",
	9:  "SOL",
	10: "MATIC",

	11: "TRX",
	12: "DOT",
	13: "AVAX",
	14: "SHIB",
	15: "LTC",
	16: "UNI",
	17: "LINK",
	18: "ATOM",
	19: "XLM",
	20: "ETC",

	21: "FIL",
	22: "NEAR",
	23: "APT",
	24: "ARB",
	25: "OP",
	26: "AAVE",
	27: "MKR",
	28: "SAND",
	29: "MANA",
	30: "AXS",

	33: "INJ",
	36: "SUI",
	38: "WLD",
	45: "FTM",
	46: "ALGO",
	49: "RUNE",
	51: "HBAR",

	88:  "ZRX",
	89:  "ENJ",
	92:  "SNX",
	113: "SUSHI",
	123: "YFI",
	132: "1INCH",
	149: "CRV",

	171: "GMT",
	179: "AGIX",
	198: "APE",
	233: "LDO",
	368: "BLUR",
	374: "PENDLE",
	391: "CFX",
	394: "ARKM",
	396: "SEI",
	417: "TIA",
	422: "PYTH",
	451: "STRK",
	463: "MANTA",
	476: "DYM",
	480: "PIXEL",
	518: "AEVO",
	533: "ETHFI",
	560: "ENA",
	568: "SAGA",
	576: "TAO",
	590: "OMNI",
	599: "NOT",
	635: "ZRO",
	640: "ZK",
	644: "HAMSTER",
	648: "EIGEN",
	649: "CATI",
	669: "NEIRO",
	672: "HMSTR",
	679: "MOODENG",
	691: "GOAT",
	706: "SCR",
	715: "EIGEN",
	724: "GRASS",
	729: "LUMIA",
	733: "BAN",
	744: "ACT",
	746: "PNUT",
	762: "MOVE",
	763: "ME",
	765: "VANA",
	772: "PENGU",
	774: "AIXBT",
	799: "TRUMP",
	800: "MELANIA",
	801: "VIRTUAL",
	803: "MAJOR",
	806: "USUAL",
	813: "ORCA",
	815: "GRIFFAIN",
	827: "ALCH",
	850: "PEPE",
	853: "RENDER",
	854: "WIF",
	856: "BONK",
	860: "POPCAT",
	862: "FLOKI",
	866: "BRETT",
	867: "SPX",
	871: "TURBO",
	874: "DOGS",
	912: "FARTCOIN",
	915: "AI16Z",
	919: "ZEREBRO",
	922: "POODL",
	944: "W",

	1020: "BOME",
	1025: "MERL",
	1031: "REZ",
	1039: "BB",
	1044: "IO",
	1046: "LISTA",
	1047: "BLAST",
	1055: "SUN",
	1074: "COOKIE",
	1085: "STABLE",
	1086: "SWARMS",
	1087: "NIGHT",
	1090: "ZKP",
	1092: "AVAAI",
}

// BybitCoinName resolves a numeric coin id. Unknown ids degrade to the
// COIN_<id> placeholder so the bad id stays visible downstream instead
// of becoming a silent null.
func BybitCoinName(id int) string {
	if name, ok := bybitCoinNames[id]; ok {
		return name
	}
	return fmt.Sprintf("COIN_%d", id)
}
