package report

import "errors"

var ErrBucketNotFound = errors.New("report: bucket does not exist")
