package ctfd

type ChallengesInfo []*ChallengeInfo

func (ac ChallengesInfo) Filter(f func(chall *ChallengeInfo) bool) ChallengesInfo {
	var res ChallengesInfo
	for _, v := range ac {
		if f(v) {
			res = append(res, v)
		}
	}
	return res
}

// Visible drops the challenges CTFd lists but refuses to show.
func (ac ChallengesInfo) Visible() ChallengesInfo {
	return ac.Filter(func(chall *ChallengeInfo) bool {
		return chall.Type != "hidden"
	})
}
