// Package report relays progress and results to the host application's
// message log.
//
// ArcGIS script tools surface whatever the tool writes through the
// geoprocessor's AddMessage callback. The Messenger interface models that
// callback; Console writes each message as one line to a stream (stdout
// for a script tool), Recorder keeps them in memory for tests.
//
// Reporter wraps a Messenger with the fixed message vocabulary every tool
// and pipeline uses ("Starting ...", "LAStools command line:",
// "Error. ... failed.", "Success. ... done.").
package report
