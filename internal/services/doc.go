// Package services holds the error markers shared by adapters around external
// tools.
//
// Adapters tag failures with Wrap so callers can tell a broken ASR install
// (ErrExternalTool), a bad argument (ErrValidation) and a misconfiguration
// apart with errors.Is, while the message keeps the operation and file that
// failed.
package services
