package catalog

import "github.com/wolfman30/scambait/internal/strategy"

var giftCards = []string{
	"Gift cards? Like Christmas cards? I already sent those out in July...",
	"A card that gives gifts? Does it wrap them too?",
	"Gift cards? I thought those were just pretty pictures on cardboard...",
	"Is that like a birthday card but fancier?",
	"Do I need to sign it? My handwriting is terrible these days...",
	"Target? I don't have a target practice range anymore...",
	"Amazon? Like the rainforest? I've never been there...",
	"Walmart? Is that like a wall made of marts?",
	"Best Buy? I always try to buy the best, that's good advice...",
	"iTunes? I don't even know what a tune is anymore...",
	"Where do I put the gift? It's just a little card...",
	"How much gift can fit on such a small card?",
	"Do I need to shrink wrap the present first?",
	"Can I put my cat on the gift card? She's very small...",
	"I tried to put a sandwich on one once, it didn't work...",
}

var giftCardNumbers = []string{
	"Let me read you the numbers... 1... 2... 3... 4... wait, that's my house number...",
	"The numbers are... hold on... B-I-N-G-O... wait, that's letters...",
	"It says... 'Expires 12/99'... that seems old, is that okay?",
	"It says 'Scratch off to reveal'... do I use a coin or my fingernail?",
	"I scratched too hard and tore the card... can you still use half numbers?",
	"I spilled coffee on it... can you still read wet numbers?",
	"The card fell behind my refrigerator... can you wait while I get a broom?",
	"Which numbers? There are so many numbers on this card...",
	"Do you want the big numbers or the little numbers?",
	"There's a number on the front and back... which one matters?",
	"The first number is... 4... wait, my phone is ringing... sorry, what were we doing?",
	"3... 7... 9... hold on, someone's at the door... I'll be right back...",
	"The activation code is 'BANANA'... wait, that's my WiFi password...",
	"I need to write this down... where did I put my pen? This could take 20 minutes...",
	"My eyesight isn't good enough to read these tiny numbers...",
	"Oh no! The numbers are disappearing! Is that supposed to happen?",
	"*puts phone down* Let me get my magnifying glass... *humming*",
	"*rustling sounds* I'm trying to find better lighting... *old jazz*",
}

var holdMusic = []string{
	"*plays elevator music* Do do do do... do do do do...",
	"*puts phone down* Oh wait, let me put on some music for you... *rustling sounds*",
	"*hums off-key* La la la la... something about a queen...",
	"*radio static* Hold on dear, I'm trying to find a good station...",
	"*plays old jazz* This was popular when I was young...",
	"*accordion music* My neighbor Harold plays this at block parties...",
	"*plays polka* This reminds me of my wedding dance...",
	"*plays harmonica badly* *wheeze wheeze* Sorry, I'm out of breath...",
	"*old radio show* 'And now back to our regularly scheduled programming...'",
	"*plays recorder off-key* I'm learning this in my senior center class...",
}

var techSupport = []string{
	"Computer? I thought that was a person who computed things...",
	"Is that the big beige box next to my television?",
	"Does it need to be plugged in? Mine's been unplugged since Christmas...",
	"The screen is black. Is it sleeping? Should I wake it up gently?",
	"There's a mouse but I don't see any cheese for it...",
	"My computer keeps asking for cookies but I already ate them all...",
	"It says 'Press any key' but I can't find the 'any' key...",
	"Windows? I have plenty of windows. Which one has the virus?",
	"The computer is making beeping sounds. Is it trying to talk to me?",
	"It says 'System failure'. Did my whole system fail at life?",
	"The error says 'Access denied'. That's very rude of my computer...",
	"It keeps saying 'OK' but nothing is OK about this situation...",
}

var irsAuthority = []string{
	"The IRS? Is that the IRS-A or IRS-B? I always get them confused...",
	"Internal Revenue Service? What's so internal about it?",
	"I thought the IRS was just a myth, like Bigfoot...",
	"Are you calling from that big building in Washington?",
	"Do you know my tax preparer? His name is Harold...",
	"Social Security suspended? But I just got my check yesterday...",
	"How can my number be suspended? It's just a number...",
	"My social security number is older than you are, young man...",
	"Suspended like a bridge? Will it fall down?",
	"Department of Treasury? Do you know where the treasure is buried?",
	"What's your badge number, officer? I'll need to write it on my calendar...",
}

var romanceInheritance = []string{
	"A prince? My late husband was a king... well, King of the local bowling league...",
	"Prince? Do you have a crown? Can you describe it?",
	"Inheritance? My uncle died and left me his collection of bottle caps...",
	"Millions? In what currency? I hope it's American dollars...",
	"Distant relative? How distant? Are we talking miles or years?",
	"Family fortune? My family's fortune was three chickens and a goat...",
	"Gold? I have some dental work that might be worth something...",
	"Bank transfer? I keep my money in coffee cans buried in the yard...",
	"Routing number? Is that like directions to my house?",
	"Love? That's sweet dear, but I'm married to my recliner now...",
	"Meet in person? I don't go out after 4 PM anymore...",
}

var questions = []string{
	"Now who did you say you were again? Could you spell your name for me, slowly?",
	"Which company is this? Is that the one with the jingle on the radio?",
	"What time is it where you are? Have you had your lunch yet?",
	"How did you get this number? Did my grandson give it to you?",
	"Is this going to be on the test? Should I be taking notes?",
	"Do you have a supervisor I can talk to? And what's his mother's name?",
	"Can you explain that again from the beginning? I was writing down the first part.",
	"Is that with a capital letter or a small one?",
}

var tangents = []string{
	"That reminds me of the time my cousin Earl bought a boat. Never once took it in the water...",
	"You sound just like my late husband's barber. Are you related to a Gus?",
	"Speaking of computers, did you know my neighbor's parrot can whistle the Jeopardy song?",
	"Oh, before I forget, do you know a good recipe for meatloaf? Mine always comes out dry...",
	"My tomatoes are doing wonderful this year. Do you garden at all, dear?",
	"Back in 1962 we didn't have any of this. We had a party line and we liked it...",
	"Hold on, the weather man just said it might rain Tuesday. Where are you calling from, is it raining there?",
}

var hearing = []string{
	"Can you speak up, dear? I can't hear so well these days.",
	"What? Hold on, let me get my hearing aid...",
	"I'm sorry, the connection is terrible. Can you repeat that slowly?",
	"Speak louder! My TV is on and I can't find the remote.",
	"Wait, what did you say? I was feeding my cat.",
	"Can you hold on? I need to turn down my radio first.",
	"I can barely hear you. Are you calling from far away?",
	"Let me get my good ear closer to the phone...",
	"Can you spell that for me? My hearing isn't what it used to be.",
	"Hold on dear, let me get my neighbor, she has better hearing.",
}

var combo = []string{
	"Hold on, let me put on some music while I get my gift cards... *humming* Now what was the question?",
	"Gift cards? *plays hold music* La la la. Sorry, what Microsoft problem were we talking about?",
	"IRS? Let me get my tax papers... *elevator music* This might take 20 minutes...",
	"Prince from Nigeria? *plays polka music* That reminds me of my wedding... what inheritance?",
	"Read the numbers? Let me find my magnifying glass first... *humming* ...what numbers were we talking about?",
}

var greetings = []string{
	"Hello? Hello? Is somebody there? Speak up, dear.",
	"Yes, hello, this is Margaret. Who's calling please?",
	"Oh, a phone call! I don't get many of these. Who is this?",
}

func defaultPools() map[string][]string {
	return map[string][]string{
		strategy.CategoryGiftCards:       giftCards,
		strategy.CategoryGiftCardNumbers: giftCardNumbers,
		strategy.CategoryHoldMusic:       holdMusic,
		strategy.CategoryTechSupport:     techSupport,
		strategy.CategoryIRSAuthority:    irsAuthority,
		strategy.CategoryRomance:         romanceInheritance,
		strategy.CategoryQuestions:       questions,
		strategy.CategoryTangents:        tangents,
		strategy.CategoryHearing:         hearing,
		strategy.CategoryCombo:           combo,
	}
}
