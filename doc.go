// Copyright 2024 health-sheets. All rights reserved.
// Use of this source code is governed by an MIT-style license
// that can be found in the LICENSE file.

/*
Package health-sheets keeps a Google Sheets spreadsheet of daily nutrition and training data up to date
from Cronometer exports and the Strava API.

health-sheets can be used from the command line but is really intended to be run from a cron job. Each run
appends only the days and activities that are newer than the latest entry in the local masterfiles and then
republishes the masterfiles to the spreadsheet.

health-sheets supports the following commands:

  - update, to export new Cronometer and Strava data
  - download, to download the Cronometer exports for the days missing from the nutrition masterfile
  - nutrition, to export new Cronometer data only
  - activities, to export new Strava activities only
  - authorise, to authorise health-sheets to read Strava activities and save the Strava refresh token
  - get, to download a worksheet as a CSV masterfile
  - put, to store a CSV masterfile to a worksheet
  - version, to display the current version
*/
package sheets
