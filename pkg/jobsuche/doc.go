// Package jobsuche is a client for the Jobsuche REST API of the
// Bundesagentur für Arbeit.
//
// Build a query, then either fetch one page or iterate the whole result set:
//
//	q, err := jobsuche.NewQuery().Title("Softwareentwickler").Location("Berlin").Radius(25).Build()
//	if err != nil {
//		return err
//	}
//	it := client.Jobs(q)
//	for {
//		job, err := it.Next(ctx)
//		if errors.Is(err, iterator.Done) {
//			break
//		}
//		if err != nil {
//			return err
//		}
//		fmt.Println(job.Refnr, job.DisplayTitle())
//	}
//
// The service never serves pages past MaxPage. Iteration stops there and
// Iterator.Truncated reports whether results were cut off.
package jobsuche
