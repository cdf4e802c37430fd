package names

func init() {
	for _, b := range []Base{
		{
			Name:          "Highland",
			Starts:        []string{"ab", "bal", "dun", "glen", "kil", "loch", "mor", "strath", "tor", "cair"},
			Middles:       []string{"an", "ach", "er", "in", "or"},
			Ends:          []string{"ach", "more", "ness", "ock", "ie", "an", "wick", "ford"},
			StateSuffixes: []string{"ia", "land", "shire"},
		},
		{
			Name:          "Northern",
			Starts:        []string{"bjor", "eid", "fjal", "hval", "kra", "sig", "thor", "ulf", "vik", "ask"},
			Middles:       []string{"a", "e", "ing", "ul", "ar"},
			Ends:          []string{"heim", "vik", "fjord", "gard", "stad", "by", "dal", "nes"},
			StateSuffixes: []string{"rike", "mark", "land"},
		},
		{
			Name:          "Imperial",
			Starts:        []string{"aur", "cal", "fla", "lu", "mar", "nov", "sal", "tar", "val", "ver"},
			Middles:       []string{"e", "i", "ent", "on", "ar"},
			Ends:          []string{"um", "ia", "ona", "ium", "ae", "ens", "ica", "a"},
			StateSuffixes: []string{"ia", "ium", "ana"},
		},
		{
			Name:          "Sylvan",
			Starts:        []string{"ae", "cel", "el", "fae", "ith", "lor", "mith", "sil", "thal", "ys"},
			Middles:       []string{"a", "ia", "la", "re", "wen"},
			Ends:          []string{"ion", "dor", "iel", "wyn", "thas", "nor", "las", "eth"},
			StateSuffixes: []string{"dor", "lond", "ien"},
		},
		{
			Name:          "Stone",
			Starts:        []string{"bar", "dur", "gim", "kaz", "khar", "mor", "nar", "thr", "gor", "bel"},
			Middles:       []string{"ak", "og", "um", "ar", "in"},
			Ends:          []string{"dum", "grim", "hold", "dak", "rak", "zad", "gund", "mir"},
			StateSuffixes: []string{"heim", "hold", "dun"},
		},
		{
			Name:          "Steppe",
			Starts:        []string{"ak", "bat", "kar", "khan", "mun", "or", "sar", "tem", "ul", "zhan"},
			Middles:       []string{"a", "u", "ur", "gan", "ta"},
			Ends:          []string{"bek", "tai", "khan", "gol", "ar", "ul", "dar", "kent"},
			StateSuffixes: []string{"stan", "ate", "kand"},
		},
	} {
		if err := Register(b); err != nil {
			panic(err)
		}
	}
}
