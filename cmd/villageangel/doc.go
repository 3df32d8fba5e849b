// Command villageangel runs the storefront backend.
//
//	villageangel serve            # start the API server
//	villageangel migrate          # run migrations
//	villageangel migrate:rollback
//	villageangel migrate:status
//	villageangel seed             # seed admin + catalogue data
//	villageangel route:list       # list API routes
//	villageangel queue:work       # run the job queue worker
//	villageangel schedule:run     # run the task scheduler
package main
