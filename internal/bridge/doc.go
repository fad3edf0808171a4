// Package bridge streams a running draw to display screens.
//
// The bridge is an optional HTTP server. Projector pages connect to /ws and
// receive every animation frame and the final reveal as JSON; /state returns
// the latest of both for pages that join late.
package bridge
