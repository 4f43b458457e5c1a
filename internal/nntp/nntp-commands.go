package nntp

// Verb is a recognized NNTP request verb, uppercased per RFC 3977 §3.1.
type Verb string

const (
	VerbArticle      Verb = "ARTICLE"
	VerbHead         Verb = "HEAD"
	VerbBody         Verb = "BODY"
	VerbStat         Verb = "STAT"
	VerbGroup        Verb = "GROUP"
	VerbListgroup    Verb = "LISTGROUP"
	VerbList         Verb = "LIST"
	VerbOver         Verb = "OVER"
	VerbXover        Verb = "XOVER"
	VerbNewgroups    Verb = "NEWGROUPS"
	VerbNewnews      Verb = "NEWNEWS"
	VerbPost         Verb = "POST"
	VerbIhave        Verb = "IHAVE"
	VerbNext         Verb = "NEXT"
	VerbLast         Verb = "LAST"
	VerbDate         Verb = "DATE"
	VerbHelp         Verb = "HELP"
	VerbMode         Verb = "MODE"
	VerbCapabilities Verb = "CAPABILITIES"
	VerbQuit         Verb = "QUIT"
)
