package service

import "math/rand/v2"

var aphorisms = []string{
	"Nothing changes if nothing changes.",
	"Sometimes you feel like you have to finish the food otherwise it'll go to waste. But you are not a garbage disposal!",
	"If you hit your target weight today, have you created the right habits to keep it?",
	"I'd rather be uncomfortable for 45 minutes a day than be uncomfortable in my body for the rest of my life.",
	"It gets easier. Every day it gets a little easier. But you gotta do it every day. That's the hard part.",
	"Make the right choice the easiest one.",
	"Even a bad workout is still a workout.",
	"It takes 4 weeks for you to see changes, 8 weeks for your family and friends, and 12 for the whole world to see.",
	"Say no once in the grocery store so you don't have to say it hundreds of times a day at home.",
	"Discipline is the strongest form of self love.",
	"Better is better.",
	"You cannot outrun your fork!",
	"Hunger tells you when to eat, not how much to eat.",
	"I have come too far to take orders from a cookie!",
	"There are 2 kinds of pain in this world: the pain of discipline, and the pain of regret.",
	"Eat less, move more.",
	"Think of your workouts as important meetings you've scheduled with yourself.",
	"Stop rewarding yourself with food. You are not a dog.",
	"You won't see results overnight but things are changing. Just wait.",
	"Whatever your problem is, the answer is not in the fridge.",
	"If you are really serious about losing weight, you need to be completely honest with yourself about what you're eating.",
	"Always have a goal, but never compare yourself to someone else.",
	"1 pound a week is 52 pounds in the next year!",
	"Everyone works hard when they feel like it. Only the best work hard when they don't feel like it.",
	"Some of the hardest things in life are easy to understand, but difficult to implement.",
	"If what you're doing is working, keep it up! If it's not, then you gotta change something.",
}

func Aphorisms() []string {
	out := make([]string, len(aphorisms))
	copy(out, aphorisms)
	return out
}

// RandomAphorism picks a line using r, or the global source when r is nil.
func RandomAphorism(r *rand.Rand) string {
	if r == nil {
		return aphorisms[rand.IntN(len(aphorisms))]
	}
	return aphorisms[r.IntN(len(aphorisms))]
}
