// Package source prepares the local working copy pinbox stores its data
// in.
//
// A Bootstrapper makes sure the working copy exists, cloning it from the
// configured remote on first use. A Synchronizer reads the category
// manifest from that working copy, seeding it with the default categories
// and pushing the seed when the manifest is missing.
//
//	dirs := appdir.New(nil)
//	store := config.NewStore(dirs, logger)
//
//	repo, _, err := source.NewBootstrapper(dirs, store, logger).EnsureRepository(ctx)
//	if err != nil {
//	    return err
//	}
//	cats, err := source.NewSynchronizer(store, logger).GetCategories(ctx, repo)
package source
