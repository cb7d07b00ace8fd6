// Package github is the hosting API client behind the remotehub backend.
//
// [Client] wraps go-github and returns the records of package provider, so
// the backend never sees API types. Lookups of missing repositories,
// branches, tags or commits return nil without an error. All other HTTP
// failures carry a platform error code derived from the status:
//
//	401 -> CodeUnauthorized   403 -> CodeForbidden   429 -> CodeRateLimit
//	400,422 -> CodeInvalidInput   5xx -> CodeNetwork
//
// [ParseRemote] extracts owner and repository from the remote URL forms git
// accepts (scp-like SSH, ssh://, https://).
package github
