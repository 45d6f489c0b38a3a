// Package tlsroots keeps a serving certificate in sync with its files on
// disk, so certificates can be rotated without restarting the server.
//
// A Reloader loads a certificate/key pair, watches both files through
// confloader.Watcher and swaps the pair in place when they change. A pair
// that fails to load is logged and the previous certificate keeps serving.
package tlsroots
