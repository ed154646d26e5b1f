// Prr reviews GitHub pull requests mailing-list style, in a plain text file.
//
// Usage:
//
//	prr get danobi/prr/24         # download the PR into a review file
//	prr edit danobi/prr/24        # comment between the quoted diff lines
//	prr submit danobi/prr/24      # post the review
//	prr status                    # list reviews
//	prr apply danobi/prr/24       # apply the PR's diff to the work tree
//	prr remove --submitted        # clean up submitted reviews
//
// Inside a clone, or with a .prr.toml naming the repository, a bare PR number
// such as "prr get 24" works too.
package main
