package nntp

// RFC 3977 numeric reply codes used by this server. Named per the section
// of the RFC that defines them; comments give the short canonical text.
const (
	CodeHelpFollows          = 100 // Help text follows
	CodeCapabilitiesFollow   = 101 // Capability list follows
	CodeDate                 = 111 // Server date and time
	CodePostingAllowed       = 200 // Service available, posting allowed
	CodePostingProhibited    = 201 // Service available, posting prohibited
	CodeClosing              = 205 // Connection closing
	CodeGroupSelected        = 211 // Group selected
	CodeListFollows          = 215 // Information follows
	CodeArticleFollows       = 220 // Article follows (multi-line)
	CodeHeadFollows          = 221 // Head follows (multi-line)
	CodeBodyFollows          = 222 // Body follows (multi-line)
	CodeArticleExists        = 223 // Article exists (STAT / NEXT / LAST)
	CodeOverviewFollows      = 224 // Overview information follows
	CodeNewNewsFollows       = 230 // List of new articles follows
	CodeNewGroupsFollows     = 231 // List of new newsgroups follows
	CodeTransferAccepted     = 235 // Article transferred successfully
	CodePostAccepted         = 240 // Article received successfully
	CodeTransferReady        = 335 // Send article to be transferred
	CodePostReady            = 340 // Send article to be posted
	CodeInternalFault        = 403 // Internal fault
	CodeNoSuchGroup          = 411 // No such newsgroup
	CodeNoGroupSelected      = 412 // No newsgroup selected
	CodeNoCurrentArticle     = 420 // Current article number is invalid
	CodeNoNextArticle        = 421 // No next article in this group
	CodeNoPrevArticle        = 422 // No previous article in this group
	CodeNoSuchArticleNumber  = 423 // No article with that number
	CodeNoSuchArticleID      = 430 // No article with that message-id
	CodeArticleNotWanted     = 435 // Article not wanted
	CodeTransferFailedRetry  = 436 // Transfer not possible, try again later
	CodeTransferRejected     = 437 // Transfer rejected, do not retry
	CodePostingNotPermitted  = 440 // Posting not permitted
	CodePostingFailed        = 441 // Posting failed
	CodeCommandNotRecognized = 500 // Command not recognized
	CodeSyntaxError          = 501 // Syntax error / wrong number of arguments
	CodeCommandUnavailable   = 503 // Feature not supported
)
