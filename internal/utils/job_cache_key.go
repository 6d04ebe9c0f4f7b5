package utils

import (
	"strconv"
	"strings"
)

const JobListCachePrefix = "jobs:list:v1:"

func BuildJobListCacheKey(limit int, location, jobType, cursor *string) string {
	l := ""
	if location != nil {
		l = strings.ToLower(strings.TrimSpace(*location))
	}
	t := ""
	if jobType != nil {
		t = strings.ToLower(strings.TrimSpace(*jobType))
	}
	c := ""
	if cursor != nil {
		c = *cursor
	}

	return JobListCachePrefix + "limit=" + strconv.Itoa(limit) +
		":location=" + l +
		":type=" + t +
		":cursor=" + c
}
