package main

import (
	"fmt"
	"time"

	"github.com/mwantia/backup-explorer/store/memory"
)

// demoDatabase names the built-in sample catalog.
const demoDatabase = "demo"

// demoCatalog builds seven daily snapshots of a small home directory.
// Documents stay stable, photos accumulate and the log changes every day.
func demoCatalog(now time.Time) *memory.Catalog {
	c := memory.NewCatalog()

	const days = 7
	for i := days; i >= 1; i-- {
		c.AddFileset(int64(i), now.AddDate(0, 0, i-days))
	}

	for i := int64(days); i >= 1; i-- {
		c.AddFile(i, "/home/user/", -1)
		c.AddFile(i, "/home/user/documents/", -1)
		c.AddFile(i, "/home/user/documents/readme.txt", 1, 512)
		c.AddFile(i, "/home/user/documents/taxes.pdf", 2, 102400, 102400, 40960)
		c.AddFile(i, "/home/user/photos/", -1)
		for p := int64(1); p <= i; p++ {
			c.AddFile(i, fmt.Sprintf("/home/user/photos/img_%03d.jpg", p), 100+p, 2048000+p*1024)
		}
		c.AddFile(i, "/var/log/system.log", 1000+i, 4096*i)
		if i%2 == 0 {
			c.AddSizedFile(i, "C:\\", "Users\\user\\notes.txt", 2000+i/2, 700+i)
		}
	}

	return c.AddWasted(8192)
}
